package chainio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/uyouii/posterior-agreement/common"
	"github.com/uyouii/posterior-agreement/model"
)

// Options controls how columns of a chain file map to weights and
// parameters. Column indexes are 0 based and refer to the file.
type Options struct {
	// WeightColumn holds the sample weight, -1 if the file has none.
	WeightColumn int `yaml:"weight_column" env:"WEIGHT_COLUMN"`
	// Columns selects the parameter columns. Empty means every column
	// except the weight column.
	Columns []int `yaml:"columns" env:"COLUMNS" envSeparator:","`
}

func DefaultOptions() Options {
	return Options{
		WeightColumn: -1,
	}
}

// ReadFile reads a chain from the text file at path.
func ReadFile(path string, opts Options) (model.Chain, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Chain{}, err
	}
	defer f.Close()

	chain, err := Read(f, opts)
	if err != nil {
		return model.Chain{}, fmt.Errorf("%s: %w", path, err)
	}
	return chain, nil
}

// Read parses one sample per line, values separated by whitespace and/or
// commas. Blank lines and lines starting with # are skipped.
func Read(r io.Reader, opts Options) (model.Chain, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var (
		chain   model.Chain
		columns []int
		width   int
		lineNo  int
	)

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		})

		if columns == nil {
			width = len(fields)
			var err error
			if columns, err = selectColumns(width, opts); err != nil {
				return model.Chain{}, err
			}
		} else if len(fields) != width {
			return model.Chain{}, fmt.Errorf("line %d has %d columns, expected %d: %w",
				lineNo, len(fields), width, common.ErrorInvalidValue)
		}

		values := make([]float64, len(fields))
		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return model.Chain{}, fmt.Errorf("line %d column %d: %w", lineNo, i, common.ErrorInvalidValue)
			}
			values[i] = v
		}

		point := make([]float64, len(columns))
		for i, c := range columns {
			point[i] = values[c]
		}
		chain.Points = append(chain.Points, point)
		if opts.WeightColumn >= 0 {
			chain.Weights = append(chain.Weights, values[opts.WeightColumn])
		}
	}
	if err := scanner.Err(); err != nil {
		return model.Chain{}, err
	}

	if chain.Len() == 0 {
		return model.Chain{}, fmt.Errorf("no samples: %w", common.ErrorInvalidValue)
	}
	return chain, nil
}

func selectColumns(width int, opts Options) ([]int, error) {
	if opts.WeightColumn >= width {
		return nil, fmt.Errorf("weight column %d, file has %d columns: %w",
			opts.WeightColumn, width, common.ErrorInvalidValue)
	}

	if len(opts.Columns) > 0 {
		for _, c := range opts.Columns {
			if c < 0 || c >= width {
				return nil, fmt.Errorf("column %d, file has %d columns: %w", c, width, common.ErrorInvalidValue)
			}
		}
		return opts.Columns, nil
	}

	columns := make([]int, 0, width)
	for c := 0; c < width; c++ {
		if c != opts.WeightColumn {
			columns = append(columns, c)
		}
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("no parameter columns: %w", common.ErrorInvalidValue)
	}
	return columns, nil
}
