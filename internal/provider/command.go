package provider

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path"
	"strings"

	"github.com/google/shlex"

	"pathgrip/internal/domain"
)

// CommandProvider runs an external program (fd, rg --files, git ls-files,
// ...) with the query appended as its last argument and reads one path
// per line from its stdout. Directories are reported with a trailing
// slash.
type CommandProvider struct {
	argv  []string
	dir   string
	limit int
}

// NewCommandProvider parses command with shell quoting rules
func NewCommandProvider(command, dir string, limit int) (*CommandProvider, error) {
	argv, err := shlex.Split(command)
	if err != nil {
		return nil, fmt.Errorf("parse search command: %w", err)
	}
	if len(argv) == 0 {
		return nil, ErrNoCommand
	}
	return &CommandProvider{argv: argv, dir: dir, limit: limit}, nil
}

func (p *CommandProvider) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	args := append(append([]string(nil), p.argv[1:]...), query)
	cmd := exec.CommandContext(ctx, p.argv[0], args...)
	cmd.Dir = p.dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", p.argv[0], err, msg)
		}
		return nil, fmt.Errorf("%s: %w", p.argv[0], err)
	}

	return parseLines(out, p.limit), nil
}

func parseLines(out []byte, limit int) []domain.SearchResult {
	var results []domain.SearchResult
	seen := make(map[string]struct{})

	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		line = strings.TrimPrefix(line, "./")
		isDir := strings.HasSuffix(line, "/")
		p := strings.TrimSuffix(line, "/")
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}

		results = append(results, domain.SearchResult{
			Path:   p,
			Name:   path.Base(p),
			IsFile: !isDir,
		})
		if limit > 0 && len(results) >= limit {
			break
		}
	}
	return results
}
