package ui

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
)

// ConfirmToken prompts the user to type token exactly and reports
// whether they did. Any other input declines; there is no re-prompt.
// Interrupt and EOF decline rather than error.
func ConfirmToken(label, token string) (bool, error) {
	prompt := promptui.Prompt{
		Label: fmt.Sprintf("%s (type %q to confirm)", label, token),
	}

	result, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, fmt.Errorf("confirmation prompt: %w", err)
	}
	return tokenMatch(result, token), nil
}

// tokenMatch is the confirmation rule: input must equal the token
// exactly. No trimming, no case folding; "Yes" declines.
func tokenMatch(input, token string) bool {
	return input == token
}
