package downloader

import (
	"errors"
	"fmt"
)

// Category classifies a failure for reporting and exit-code purposes.
type Category string

const (
	// CategoryConfig marks invalid or contradictory run options. It is the
	// only fatal category: nothing has been attempted when it is raised.
	CategoryConfig Category = "config"
	// CategoryNotPlayable marks sources the provider refuses to play
	// (removed, private, region- or age-restricted).
	CategoryNotPlayable Category = "not_playable"
	// CategoryNoStream marks videos whose stream list matched none of the
	// selector's fallback combinations.
	CategoryNoStream Category = "no_stream"
	// CategoryTransfer marks failures while pulling bytes or extracting a
	// clip.
	CategoryTransfer Category = "transfer"
	// CategoryUnexpected marks everything else an executor ran into.
	CategoryUnexpected Category = "unexpected"
)

// CategorizedError attaches a Category to an underlying error.
type CategorizedError struct {
	Category Category
	Err      error
}

func (e *CategorizedError) Error() string {
	return e.Err.Error()
}

func (e *CategorizedError) Unwrap() error {
	return e.Err
}

// WrapCategory attaches cat to err. It returns nil for a nil err.
func WrapCategory(cat Category, err error) error {
	if err == nil {
		return nil
	}
	return &CategorizedError{Category: cat, Err: err}
}

// categorize keeps an existing category on err or attaches fallback.
func categorize(err error, fallback Category) error {
	if err == nil {
		return nil
	}
	var ce *CategorizedError
	if errors.As(err, &ce) {
		return err
	}
	return WrapCategory(fallback, err)
}

// CategoryOf returns the category attached to err, or CategoryUnexpected
// when none is present.
func CategoryOf(err error) Category {
	var ce *CategorizedError
	if errors.As(err, &ce) {
		return ce.Category
	}
	return CategoryUnexpected
}

// ExitCode maps an error to the process exit code the CLI uses.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if CategoryOf(err) == CategoryConfig {
		return 2
	}
	return 1
}

func configErrorf(format string, args ...any) error {
	return WrapCategory(CategoryConfig, fmt.Errorf(format, args...))
}

type reportedError struct {
	err error
}

func (e reportedError) Error() string {
	return e.err.Error()
}

func (e reportedError) Unwrap() error {
	return e.err
}

// MarkReported flags err as already printed to stderr so outer layers do
// not repeat it.
func MarkReported(err error) error {
	if err == nil {
		return nil
	}
	return reportedError{err: err}
}

// IsReported returns true if the error has already been printed to stderr.
func IsReported(err error) bool {
	var re reportedError
	return errors.As(err, &re)
}
