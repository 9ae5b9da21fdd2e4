package ml

import (
	"errors"
	"path/filepath"
	"testing"
)

func stumpNodes() []TreeNode {
	return []TreeNode{
		{FeatureIdx: 2, Threshold: 100, LeftChild: 1, RightChild: 2},
		{FeatureIdx: -1, LeftChild: -1, RightChild: -1, ClassLabel: 0, IsLeaf: true},
		{FeatureIdx: -1, LeftChild: -1, RightChild: -1, ClassLabel: 1, IsLeaf: true, Confidence: 0.9},
	}
}

func TestDecisionTreePredict(t *testing.T) {
	model, err := NewDecisionTree(stumpNodes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	label, confidence, err := model.Predict([]float64{0, 0, 50, 60})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != 0 || confidence <= 0 {
		t.Fatalf("expected label 0 with confidence, got %d %f", label, confidence)
	}
	label, confidence, err = model.Predict([]float64{0, 0, 150, 160})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != 1 || confidence != 0.9 {
		t.Fatalf("expected label 1 at 0.9, got %d %f", label, confidence)
	}
}

func TestDecisionTreeShortRow(t *testing.T) {
	model, _ := NewDecisionTree(stumpNodes())
	if _, _, err := model.Predict([]float64{1}); err == nil {
		t.Fatal("expected error for short feature row")
	}
}

func TestDecisionTreeRejectsBadStructure(t *testing.T) {
	nodes := stumpNodes()
	nodes[0].RightChild = 0
	if _, err := NewDecisionTree(nodes); err == nil {
		t.Fatal("expected error for self-referencing node")
	}
	nodes = stumpNodes()
	nodes[0].FeatureIdx = 7
	if _, err := NewDecisionTree(nodes); err == nil {
		t.Fatal("expected error for unknown feature")
	}
	if _, err := NewDecisionTree(nil); !errors.Is(err, ErrModelNotTrained) {
		t.Fatalf("expected ErrModelNotTrained, got %v", err)
	}
}

func TestDecisionTreeSaveLoad(t *testing.T) {
	model, _ := NewDecisionTree(stumpNodes())
	path := filepath.Join(t.TempDir(), "tree.json")
	if err := model.Save(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	loaded := &DecisionTree{}
	if err := loaded.Load(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Len() != 3 {
		t.Fatalf("expected 3 nodes, got %d", loaded.Len())
	}
	if err := (&DecisionTree{}).Save(path); !errors.Is(err, ErrModelNotTrained) {
		t.Fatalf("expected ErrModelNotTrained, got %v", err)
	}
}

func TestLoadModel(t *testing.T) {
	model, err := LoadModel(ModelTypeDecisionTree, filepath.Join("..", "models", "asteroid_tree.json"), LoadOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// pinned regression: this vector is Hazardous under the bundled tree
	label, _, err := model.Predict(FeatureVector{1000000, 40000, 400, 600}.Slice())
	if err != nil || label != 1 {
		t.Fatalf("expected class 1, got %d (%v)", label, err)
	}

	var startupErr *StartupError
	if _, err := LoadModel(ModelTypeDecisionTree, filepath.Join(t.TempDir(), "missing.json"), LoadOptions{}); !errors.As(err, &startupErr) {
		t.Fatalf("expected StartupError, got %v", err)
	}
	if _, err := LoadModel("random_forest", "x", LoadOptions{}); !errors.Is(err, ErrUnsupportedModel) {
		t.Fatalf("expected ErrUnsupportedModel, got %v", err)
	}
}
