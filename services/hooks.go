package services

import "log"

type hook struct {
	name string
	fn   func() error
}

// postCommit collects side effects to run after the unit of work commits.
// Each hook is isolated: an error or panic is logged and the next hook
// still runs. Hooks never affect the transaction outcome.
type postCommit struct {
	hooks []hook
}

func (p *postCommit) add(name string, fn func() error) {
	p.hooks = append(p.hooks, hook{name: name, fn: fn})
}

func (p *postCommit) run() {
	for _, h := range p.hooks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("⚠️ post-commit hook %q panicked: %v", h.name, r)
				}
			}()
			if err := h.fn(); err != nil {
				log.Printf("⚠️ post-commit hook %q failed: %v", h.name, err)
			}
		}()
	}
}
