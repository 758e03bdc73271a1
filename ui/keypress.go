package ui

import (
	"sync"

	"github.com/eiannone/keyboard"
)

var (
	keyCh     chan rune
	startOnce sync.Once
)

// StartKeyEvents returns a channel that emits single-key runes read
// without Enter. Escape arrives as rune 27. If the terminal has no
// keyboard the channel simply never emits.
func StartKeyEvents() chan rune {
	startOnce.Do(func() {
		keyCh = make(chan rune, 64)
		if err := keyboard.Open(); err != nil {
			return
		}
		go func() {
			defer keyboard.Close()
			for {
				char, key, err := keyboard.GetKey()
				if err != nil {
					close(keyCh)
					return
				}
				if key == 0 {
					select {
					case keyCh <- char:
					default:
					}
				} else if key == keyboard.KeyEsc {
					select {
					case keyCh <- 27:
					default:
					}
				}
			}
		}()
	})
	if keyCh == nil {
		keyCh = make(chan rune, 64)
	}
	return keyCh
}

// DrainKeys consumes any immediately available keys to avoid accidental
// triggers.
func DrainKeys() {
	ch := StartKeyEvents()
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}
