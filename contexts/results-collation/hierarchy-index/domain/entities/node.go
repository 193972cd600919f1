package entities

import (
	"fmt"
	"strings"

	domainerrors "tally/contexts/results-collation/hierarchy-index/domain/errors"
)

type Level string

const (
	LevelStation      Level = "station"
	LevelArea         Level = "area"
	LevelConstituency Level = "constituency"
	LevelRegion       Level = "region"
	LevelNational     Level = "national"
)

func (l Level) Valid() bool {
	switch l {
	case LevelStation, LevelArea, LevelConstituency, LevelRegion, LevelNational:
		return true
	default:
		return false
	}
}

// IsLeaf reports whether vote entries are recorded by hand at this level.
func (l Level) IsLeaf() bool {
	return l == LevelStation
}

// ParentLevel returns the level a node's parent must have. The national
// root has no parent.
func (l Level) ParentLevel() (Level, bool) {
	switch l {
	case LevelStation:
		return LevelArea, true
	case LevelArea:
		return LevelConstituency, true
	case LevelConstituency:
		return LevelRegion, true
	case LevelRegion:
		return LevelNational, true
	default:
		return "", false
	}
}

type Node struct {
	NodeID           string
	Name             string
	Level            Level
	ParentID         string
	RegisteredVoters int64
}

// ValidateNodes checks structural consistency of a full tree load:
// unique ids, valid levels, non-negative voter counts, exactly one national
// root, and every parent present at the level the child's level requires.
func ValidateNodes(nodes []Node) error {
	byID := make(map[string]Node, len(nodes))
	roots := 0
	for _, node := range nodes {
		id := strings.TrimSpace(node.NodeID)
		if id == "" {
			return fmt.Errorf("node with empty id: %w", domainerrors.ErrInvalidHierarchy)
		}
		if !node.Level.Valid() {
			return fmt.Errorf("node %s has level %q: %w", id, node.Level, domainerrors.ErrInvalidHierarchy)
		}
		if node.RegisteredVoters < 0 {
			return fmt.Errorf("node %s has negative registered voters: %w", id, domainerrors.ErrInvalidHierarchy)
		}
		if _, exists := byID[id]; exists {
			return fmt.Errorf("duplicate node id %s: %w", id, domainerrors.ErrInvalidHierarchy)
		}
		byID[id] = node
		if node.Level == LevelNational {
			roots++
		}
	}
	if roots != 1 {
		return fmt.Errorf("expected exactly one national root, found %d: %w", roots, domainerrors.ErrInvalidHierarchy)
	}
	for _, node := range nodes {
		wantParent, hasParent := node.Level.ParentLevel()
		if !hasParent {
			if strings.TrimSpace(node.ParentID) != "" {
				return fmt.Errorf("national root %s must not have a parent: %w", node.NodeID, domainerrors.ErrInvalidHierarchy)
			}
			continue
		}
		parent, ok := byID[strings.TrimSpace(node.ParentID)]
		if !ok {
			return fmt.Errorf("node %s references missing parent %q: %w", node.NodeID, node.ParentID, domainerrors.ErrInvalidHierarchy)
		}
		if parent.Level != wantParent {
			return fmt.Errorf("node %s at level %s requires a %s parent, got %s: %w",
				node.NodeID, node.Level, wantParent, parent.Level, domainerrors.ErrInvalidHierarchy)
		}
	}
	return nil
}
