package notify

import (
	"fmt"
	"net/smtp"

	"gorm.io/gorm"

	"github.com/BeltranHC/ecomerce-akemy-sub000/models"
)

// EmailNotifier sends order mails over SMTP. With no host configured it
// is a no-op, so local runs work without a mail server.
type EmailNotifier struct {
	db   *gorm.DB
	host string
	port string
	from string
}

func NewEmailNotifier(db *gorm.DB, host, port, from string) *EmailNotifier {
	return &EmailNotifier{db: db, host: host, port: port, from: from}
}

func (n *EmailNotifier) OrderConfirmed(order *models.Order) error {
	to, err := n.userEmail(order.UserID)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("Order %s confirmed", order.OrderNumber)
	return n.send(to, subject, buildOrderConfirmedBody(order))
}

func (n *EmailNotifier) StatusChanged(order *models.Order, status models.OrderStatus, message string) error {
	to, err := n.userEmail(order.UserID)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("Order %s update", order.OrderNumber)
	return n.send(to, subject, buildStatusChangedBody(order, status, message))
}

func (n *EmailNotifier) ReadyForPickup(userID, orderNumber string) error {
	to, err := n.userEmail(userID)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("Order %s is ready for pickup", orderNumber)
	body := fmt.Sprintf("<p>Your order <strong>%s</strong> is ready for pickup.</p>", orderNumber)
	return n.send(to, subject, body)
}

func (n *EmailNotifier) userEmail(userID string) (string, error) {
	var user models.User
	if err := n.db.Select("email").First(&user, "id = ?", userID).Error; err != nil {
		return "", fmt.Errorf("lookup recipient for user %s: %w", userID, err)
	}
	return user.Email, nil
}

func (n *EmailNotifier) send(to, subject, body string) error {
	if n.host == "" {
		return nil
	}
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		n.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", n.host, n.port)
	return smtp.SendMail(addr, nil, n.from, []string{to}, []byte(msg))
}
