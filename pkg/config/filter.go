package config

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/getmockd/httpfixture/pkg/fixture"
)

// filterEnv is the environment a filter expression is evaluated in.
type filterEnv struct {
	Name  string `expr:"name"`
	Value string `expr:"value"`
}

// CompileFilter compiles a boolean expression over name and value into a
// parameter filter. Evaluation errors keep the parameter.
func CompileFilter(expression string) (fixture.ParameterFilter, error) {
	program, err := compileFilter(expression)
	if err != nil {
		return nil, err
	}
	return func(name, value string) bool {
		out, err := expr.Run(program, filterEnv{Name: name, Value: value})
		if err != nil {
			return false
		}
		drop, _ := out.(bool)
		return drop
	}, nil
}

func compileFilter(expression string) (*vm.Program, error) {
	program, err := expr.Compile(expression, expr.Env(filterEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", expression, err)
	}
	return program, nil
}
