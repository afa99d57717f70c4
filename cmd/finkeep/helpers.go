package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/debray/finkeep/internal/auth"
	"github.com/debray/finkeep/internal/config"
	"github.com/debray/finkeep/internal/notify"
	"github.com/debray/finkeep/internal/storage"
)

func resolveDataDir() string {
	dir := viper.GetString("data.dir")
	if dir == "" {
		dir = config.DefaultDataDir()
	}
	return config.ExpandPath(dir)
}

// openLedger opens the record store under the configured data directory.
func openLedger() (*storage.Store, error) {
	store, err := storage.New(resolveDataDir())
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}
	return store, nil
}

// openAccounts opens the credential store; the notifier comes from the
// email.* config section, falling back to a no-op when no host is set.
func openAccounts() (*auth.Store, error) {
	store, err := auth.NewStore(filepath.Join(resolveDataDir(), "users.json"), newNotifier())
	if err != nil {
		return nil, fmt.Errorf("failed to open credential store: %w", err)
	}
	return store, nil
}

func newNotifier() notify.Notifier {
	host := viper.GetString("email.host")
	if host == "" {
		return notify.Noop{}
	}
	return notify.NewSMTPNotifier(notify.SMTPConfig{
		Host:     host,
		Port:     viper.GetInt("email.port"),
		Username: viper.GetString("email.username"),
		Password: viper.GetString("email.password"),
		From:     viper.GetString("email.from"),
	})
}

// readPassword prompts for a password without echoing when stdin is a
// terminal, and falls back to a plain line read otherwise (tests, pipes).
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readNewPassword prompts twice and requires both entries to match.
func readNewPassword() (string, error) {
	password, err := readPassword("New password: ")
	if err != nil {
		return "", err
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return "", err
	}
	if password != confirm {
		return "", fmt.Errorf("passwords do not match")
	}
	return password, nil
}

// parsePairs turns repeated key=value flag occurrences into a map.
func parsePairs(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", pair)
		}
		out[key] = value
	}
	return out, nil
}
