package game

import (
	"fmt"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"ghero-arcade/rhythm"
)

var namedKeys = map[string]int32{
	"SPACE":  rl.KeySpace,
	"ENTER":  rl.KeyEnter,
	"LEFT":   rl.KeyLeft,
	"RIGHT":  rl.KeyRight,
	"UP":     rl.KeyUp,
	"DOWN":   rl.KeyDown,
	"LSHIFT": rl.KeyLeftShift,
	"RSHIFT": rl.KeyRightShift,
}

// keyCode maps a configured key name to its raylib code. Letters and
// digits share their ASCII codes with raylib.
func keyCode(name string) (int32, error) {
	name = strings.ToUpper(name)
	if code, ok := namedKeys[name]; ok {
		return code, nil
	}
	if len(name) == 1 {
		c := name[0]
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			return int32(c), nil
		}
	}
	return 0, fmt.Errorf("unknown key %q", name)
}

// keyboard reads lane input from raylib.
type keyboard struct {
	keys [rhythm.Lanes]int32
}

func newKeyboard(names [rhythm.Lanes]string) (keyboard, error) {
	var kb keyboard
	for lane, name := range names {
		code, err := keyCode(name)
		if err != nil {
			return kb, fmt.Errorf("lane %d: %w", lane, err)
		}
		kb.keys[lane] = code
	}
	return kb, nil
}

func (kb keyboard) poll() rhythm.Input {
	var in rhythm.Input
	for lane, key := range kb.keys {
		in[lane] = rhythm.LaneInput{
			Pressed: rl.IsKeyPressed(key),
			Held:    rl.IsKeyDown(key),
		}
	}
	return in
}
