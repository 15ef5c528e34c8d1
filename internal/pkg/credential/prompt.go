package credential

import (
	"fmt"
	"io"
	"os"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"
	"golang.org/x/term"

	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/code"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/options"
)

// Prompt reads the passwords missing from opts from the terminal behind in,
// without echo. Nothing is read when every password is already set.
func Prompt(opts *options.CredentialOptions, in *os.File, out io.Writer) error {
	accounts := []struct {
		role    Role
		account *options.AccountOptions
	}{
		{Standard, &opts.Standard},
		{Administrator, &opts.Admin},
	}

	missing := false
	for _, a := range accounts {
		if a.account.Password == "" {
			missing = true
		}
	}
	if !missing {
		return nil
	}

	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return errors.WithCode(code.ErrConfiguration, "cannot prompt for passwords: stdin is not a terminal")
	}
	for _, a := range accounts {
		if a.account.Password != "" {
			continue
		}
		fmt.Fprintf(out, "Password for %s account %s: ", a.role, a.account.Email)
		pw, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return errors.WrapC(err, code.ErrConfiguration, "read %s password", a.role)
		}
		a.account.Password = string(pw)
	}
	return nil
}
