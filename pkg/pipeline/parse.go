package pipeline

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ParseURLList reads newline-delimited package URLs. Surrounding whitespace
// is trimmed; blank lines and lines starting with '#' are skipped. Lines are
// not length-limited here: an oversized entry is rejected when it is
// resolved, like any other malformed URL, and does not affect its neighbours.
func ParseURLList(r io.Reader) ([]string, error) {
	br := bufio.NewReader(r)

	var urls []string
	for {
		raw, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read URL list: %w", err)
		}
		line := strings.TrimSpace(raw)
		if line != "" && !strings.HasPrefix(line, "#") {
			urls = append(urls, line)
		}
		if err != nil {
			return urls, nil
		}
	}
}
