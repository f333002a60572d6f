package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// promptPassword asks for the vCenter password with echo disabled.
func promptPassword() (string, error) {
	var password string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("vCenter password").
				Description("vcenter_password is not set in the tfvars files").
				EchoMode(huh.EchoModePassword).
				Value(&password).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("password is required")
					}
					return nil
				}),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return password, nil
}
