// Package pass keeps session blobs in the pass(1) password store.
package pass

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/bnema/acs/internal/domain"
	"github.com/bnema/acs/internal/ports"
)

var ErrUnavailable = errors.New("pass command unavailable")

const (
	missingEntryMarker = "is not in the password store"
	storeDirEnv        = "PASSWORD_STORE_DIR"
)

type invocation struct {
	args  []string
	stdin string
	env   []string
}

type runFunc func(ctx context.Context, inv invocation) (stdout string, stderr string, err error)

type Store struct {
	dir string
	run runFunc
}

var _ ports.SecretStore = (*Store)(nil)

// NewStore uses the password store at dir, or pass's own default when dir
// is empty.
func NewStore(dir string) *Store {
	return &Store{dir: dir, run: runPass}
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	if err := s.check(ctx, key); err != nil {
		return err
	}

	_, stderr, err := s.run(ctx, s.invocation(value+"\n", "insert", "--multiline", "--force", key))
	if err != nil {
		return passError("insert", key, err, stderr)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := s.check(ctx, key); err != nil {
		return "", err
	}

	stdout, stderr, err := s.run(ctx, s.invocation("", "show", key))
	if err != nil {
		return "", passError("show", key, err, stderr)
	}

	// insert --multiline stores the blob with one trailing newline.
	stdout = strings.TrimSuffix(stdout, "\n")
	return strings.TrimSuffix(stdout, "\r"), nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.check(ctx, key); err != nil {
		return err
	}

	_, stderr, err := s.run(ctx, s.invocation("", "rm", "--force", key))
	if err != nil {
		return passError("rm", key, err, stderr)
	}
	return nil
}

func (s *Store) check(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key == "" || strings.HasPrefix(key, "/") || strings.HasPrefix(key, "-") || strings.Contains(key, "..") {
		return fmt.Errorf("invalid pass entry name %q", key)
	}
	return nil
}

func (s *Store) invocation(stdin string, args ...string) invocation {
	inv := invocation{args: args, stdin: stdin}
	if s.dir != "" {
		inv.env = []string{storeDirEnv + "=" + s.dir}
	}
	return inv
}

func runPass(ctx context.Context, inv invocation) (string, string, error) {
	path, err := exec.LookPath("pass")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", "", ErrUnavailable
		}
		return "", "", fmt.Errorf("locate pass command: %w", err)
	}

	cmd := exec.CommandContext(ctx, path, inv.args...)
	if inv.stdin != "" {
		cmd.Stdin = strings.NewReader(inv.stdin)
	}
	if len(inv.env) > 0 {
		cmd.Env = append(os.Environ(), inv.env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	return stdout.String(), strings.TrimSpace(stderr.String()), err
}

func passError(op string, key string, err error, stderr string) error {
	if strings.Contains(stderr, missingEntryMarker) {
		return fmt.Errorf("pass %s %q: %w", op, key, domain.ErrSecretNotFound)
	}
	if stderr == "" {
		return fmt.Errorf("pass %s %q: %w", op, key, err)
	}
	return fmt.Errorf("pass %s %q: %w: %s", op, key, err, stderr)
}
