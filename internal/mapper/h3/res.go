package h3mapper

import (
	"fmt"

	h3 "github.com/uber/h3-go/v4"

	"github.com/mohammed-shakir/geomcore/internal/core/model"
)

func (m *Mapper) ToParent(cell string, parentRes int) (string, error) {
	if err := validateRes(parentRes); err != nil {
		return "", err
	}
	c, err := parseCell(cell)
	if err != nil {
		return "", err
	}
	curRes := c.Resolution()
	if parentRes > curRes {
		return "", fmt.Errorf("parentRes %d must be <= cell resolution %d", parentRes, curRes)
	}
	if parentRes == curRes {
		return cell, nil
	}

	p, err := c.Parent(parentRes)
	if err != nil {
		return "", fmt.Errorf("h3 parent: %w", err)
	}
	return p.String(), nil
}

// Coarsen replaces every cell by its parent at parentRes, deduplicated and
// sorted.
func (m *Mapper) Coarsen(cells model.Cells, parentRes int) (model.Cells, error) {
	if err := validateRes(parentRes); err != nil {
		return nil, err
	}
	parents := make([]h3.Cell, 0, len(cells))
	for _, cell := range cells {
		c, err := parseCell(cell)
		if err != nil {
			return nil, err
		}
		if c.Resolution() < parentRes {
			return nil, fmt.Errorf("cell %s is coarser than res %d", cell, parentRes)
		}
		p, err := c.Parent(parentRes)
		if err != nil {
			return nil, fmt.Errorf("h3 parent: %w", err)
		}
		parents = append(parents, p)
	}
	return uniqueSorted(parents), nil
}
