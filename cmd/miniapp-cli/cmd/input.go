package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nfrund/miniapp/internal/domain"
	"github.com/nfrund/miniapp/internal/mockdata"
	"github.com/spf13/afero"
	"golang.org/x/term"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// readInitData returns the init data passed on the command line, or reads it
// from in. A terminal gets a prompt and a single line; anything else is read
// to EOF.
func readInitData(flagValue string, in io.Reader, w io.Writer) (domain.InitData, error) {
	if flagValue != "" {
		return domain.InitData(flagValue), nil
	}

	if f, ok := in.(*os.File); ok && isTerminal(int(f.Fd())) {
		if _, err := fmt.Fprint(w, "Paste init data\n> "); err != nil {
			return "", err
		}
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
			return "", err
		}
		return domain.InitData(strings.TrimSpace(line)), nil
	}

	raw, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("read init data: %w", err)
	}
	return domain.InitData(strings.TrimSpace(string(raw))), nil
}

// loadUser reads a user JSON file; an empty path yields nil.
func loadUser(fs afero.Fs, path string) (*domain.UnsafeUserView, error) {
	if path == "" {
		return nil, nil
	}
	user, err := mockdata.ReadUser(fs, path)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
