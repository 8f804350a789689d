package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var errUsage = errors.New("usage")

func usage(format string) error {
	return fmt.Errorf("%w: %s", errUsage, format)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// parseParent reads a destination folder; "root", "/" and "-" mean the root.
func parseParent(s string) (*int64, error) {
	switch strings.ToLower(s) {
	case "root", "/", "-":
		return nil, nil
	}
	id, err := parseID(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// optionalParent is parseParent for an optional trailing argument.
func optionalParent(args []string, i int) (*int64, error) {
	if len(args) <= i {
		return nil, nil
	}
	return parseParent(args[i])
}

// argOrPrompt returns args[i], or asks for it when missing.
func argOrPrompt(args []string, i int, reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if len(args) > i {
		return args[i], nil
	}
	return getSimpleText(reader, prompt, w)
}
