package orchestration

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	apperrors "github.com/agbru/bigcalc/internal/errors"
)

// maxLineBytes bounds a single batch line; a literal can be millions of digits.
const maxLineBytes = 64 << 20

// LoadExpressions collects the expressions to evaluate: the positional
// arguments first, then the lines of batchFile when it is set. Blank lines
// and lines starting with '#' are skipped.
//
// Parameters:
//   - args: Expressions given on the command line.
//   - batchFile: A path to a batch file, "-" for standard input, or "".
//   - stdin: The reader used when batchFile is "-".
//
// Returns:
//   - []string: The expressions, in order.
//   - error: A ConfigError when no expression was given, or an I/O error.
func LoadExpressions(args []string, batchFile string, stdin io.Reader) ([]string, error) {
	exprs := make([]string, 0, len(args))
	for _, a := range args {
		if s := strings.TrimSpace(a); s != "" {
			exprs = append(exprs, s)
		}
	}

	if batchFile != "" {
		var r io.Reader = stdin
		if batchFile != "-" {
			f, err := os.Open(batchFile)
			if err != nil {
				return nil, apperrors.WrapError(err, "opening batch file")
			}
			defer f.Close()
			r = f
		}
		lines, err := ReadExpressions(r)
		if err != nil {
			return nil, apperrors.WrapError(err, "reading batch file %s", batchFile)
		}
		exprs = append(exprs, lines...)
	}

	if len(exprs) == 0 {
		return nil, apperrors.NewConfigError("no expression to evaluate")
	}
	return exprs, nil
}

// ReadExpressions reads one expression per line from r, skipping blank lines
// and '#' comments.
func ReadExpressions(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	var exprs []string
	line := 0
	for sc.Scan() {
		line++
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		exprs = append(exprs, s)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("line %d: %w", line+1, err)
	}
	return exprs, nil
}
