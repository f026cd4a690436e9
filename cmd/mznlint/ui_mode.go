package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

func shouldUseTUI(mode uiMode) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return isTerminal(os.Stdout)
	}
}

// useColor resolves --color the same way as --ui; NO_COLOR is honoured in auto mode.
func useColor(value string) (bool, error) {
	mode, err := readUIMode(value)
	if err != nil {
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
	if mode == uiModeAuto {
		return !color.NoColor && isTerminal(os.Stdout), nil
	}
	return mode == uiModeOn, nil
}
