package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/eiannone/keyboard"
	"github.com/vsariola/termsynth"
)

// ReadKeys reads the terminal keyboard and forwards every key as a KeyMsg to
// the control loop until ctx is done, reading fails or the control loop stops
// accepting messages. The terminal is put into raw mode for the duration.
func ReadKeys(ctx context.Context, broker *termsynth.Broker, logger *slog.Logger) error {
	if err := keyboard.Open(); err != nil {
		return fmt.Errorf("opening keyboard: %w", err)
	}
	closeOnce := &sync.Once{}
	closeKeyboard := func() { closeOnce.Do(func() { _ = keyboard.Close() }) }
	defer closeKeyboard()
	go func() {
		<-ctx.Done()
		closeKeyboard()
	}()
	for {
		char, key, err := keyboard.GetKey()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("reading keyboard: %w", err)
		}
		k, ok := TranslateKey(char, key)
		if !ok {
			logger.Debug("keyboard: ignored key", "char", char, "key", key)
			continue
		}
		if err := broker.ToUI.Send(termsynth.KeyMsg{Key: k}); err != nil {
			if errors.Is(err, termsynth.ErrMailboxClosed) {
				return nil
			}
			return err
		}
		if k.Code == termsynth.KeyEsc {
			return nil
		}
	}
}

// TranslateKey maps a key reported by the terminal to a synthesizer key.
// Ctrl-C quits like Esc.
func TranslateKey(char rune, key keyboard.Key) (termsynth.Key, bool) {
	switch key {
	case keyboard.KeyArrowUp:
		return termsynth.NewKey(termsynth.KeyUp), true
	case keyboard.KeyArrowDown:
		return termsynth.NewKey(termsynth.KeyDown), true
	case keyboard.KeyArrowLeft:
		return termsynth.NewKey(termsynth.KeyLeft), true
	case keyboard.KeyArrowRight:
		return termsynth.NewKey(termsynth.KeyRight), true
	case keyboard.KeyBackspace, keyboard.KeyBackspace2:
		return termsynth.NewKey(termsynth.KeyBackspace), true
	case keyboard.KeyEnter:
		return termsynth.NewKey(termsynth.KeyEnter), true
	case keyboard.KeyEsc, keyboard.KeyCtrlC:
		return termsynth.NewKey(termsynth.KeyEsc), true
	case keyboard.KeySpace:
		return termsynth.CharKey(' '), true
	}
	if char != 0 {
		return termsynth.CharKey(char), true
	}
	return termsynth.Key{}, false
}
