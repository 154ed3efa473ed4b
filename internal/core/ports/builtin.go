package ports

import (
	"context"
	"io"

	"github.com/anvil-build/anvil/internal/core/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=builtin.go -destination=mocks/mock_builtin.go -package=mocks

// BuiltinRunner dispatches invocations whose executable is a builtin tool,
// running them inside this process instead of spawning. The tool is
// selected by the executable's name, "builtin-" prefix included.
type BuiltinRunner interface {
	Run(ctx context.Context, inv *domain.Invocation, stdout, stderr io.Writer) error
}
