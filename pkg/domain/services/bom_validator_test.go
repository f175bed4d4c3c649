package services

import (
	"errors"
	"slices"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bommrp/pkg/domain/entities"
)

func node(id string, level entities.LevelKind, parent string) *entities.TechnicalListNode {
	return &entities.TechnicalListNode{ID: id, Code: id, Name: id, Level: level, ParentID: parent}
}

func subList(parent, child string) *entities.BOMEdge {
	return &entities.BOMEdge{ParentID: parent, SubListID: child, Quantity: decimal.NewFromInt(1), Weighting: entities.DefaultWeighting}
}

func component(parent, item string) *entities.BOMEdge {
	return &entities.BOMEdge{ParentID: parent, ComponentID: item, Quantity: decimal.NewFromInt(1), Weighting: entities.DefaultWeighting}
}

func chainNodes() []*entities.TechnicalListNode {
	return []*entities.TechnicalListNode{
		node("S", entities.Series, ""),
		node("SY", entities.System, "S"),
		node("A", entities.Assembly, "SY"),
		node("SA", entities.Subassembly, "A"),
		node("I", entities.ItemLevel, "SA"),
	}
}

func chainEdges() []*entities.BOMEdge {
	return []*entities.BOMEdge{
		subList("S", "SY"),
		subList("SY", "A"),
		subList("A", "SA"),
		subList("SA", "I"),
		component("I", "C1"),
	}
}

var testItems = []*entities.Item{{ID: "C1", Code: "C1"}, {ID: "C2", Code: "C2"}}

func hasError(errs []error, target error) bool {
	for _, err := range errs {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func TestBOMValidator_ValidChain(t *testing.T) {
	validator := NewBOMValidator(LevelStrict)

	result := validator.ValidateStructure(chainNodes(), chainEdges(), testItems)

	if !result.Valid() {
		t.Fatalf("Expected valid structure, got %v", result.Errors)
	}
	if result.HasCycles {
		t.Error("Expected no cycles")
	}
	if len(result.Orphaned) != 0 {
		t.Errorf("Expected no orphans, got %v", result.Orphaned)
	}
}

func TestBOMValidator_MalformedEdges(t *testing.T) {
	testCases := []struct {
		name string
		edge *entities.BOMEdge
		want error
	}{
		{"both children", &entities.BOMEdge{ParentID: "S", SubListID: "SY", ComponentID: "C1", Quantity: decimal.NewFromInt(1)}, entities.ErrMalformedEdge},
		{"no child", &entities.BOMEdge{ParentID: "S", Quantity: decimal.NewFromInt(1)}, entities.ErrMalformedEdge},
		{"unknown parent", component("X", "C1"), entities.ErrMalformedEdge},
		{"unknown sub-list", subList("S", "X"), entities.ErrMalformedEdge},
		{"unknown component", component("I", "C9"), entities.ErrMalformedEdge},
		{"zero quantity", &entities.BOMEdge{ParentID: "I", ComponentID: "C1", Quantity: decimal.Zero}, entities.ErrNegativeOrZeroQuantity},
		{"negative weighting", &entities.BOMEdge{ParentID: "I", ComponentID: "C1", Quantity: decimal.NewFromInt(1), Weighting: decimal.NewFromInt(-5)}, entities.ErrInvalidWeighting},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			validator := NewBOMValidator(LevelStrict)
			edges := append(chainEdges(), tc.edge)

			result := validator.ValidateStructure(chainNodes(), edges, testItems)

			if result.Valid() {
				t.Fatal("Expected validation to fail")
			}
			if !hasError(result.Errors, tc.want) {
				t.Errorf("Expected %v, got %v", tc.want, result.Errors)
			}

			var structErr *entities.StructureError
			if !errors.As(result.Errors[0], &structErr) || structErr.Edge != len(edges)-1 {
				t.Errorf("Expected error to point at edge %d, got %v", len(edges)-1, result.Errors[0])
			}
		})
	}
}

func TestBOMValidator_DetectSimpleCycle(t *testing.T) {
	// A -> B -> A, both Assemblies so levels alone would not flag it
	nodes := []*entities.TechnicalListNode{
		node("A", entities.Assembly, ""),
		node("B", entities.Assembly, ""),
	}
	edges := []*entities.BOMEdge{subList("A", "B"), subList("B", "A")}

	result := NewBOMValidator(LevelStrict).ValidateStructure(nodes, edges, nil)

	if !result.HasCycles {
		t.Fatal("Expected cycle to be detected")
	}
	if !hasError(result.Errors, entities.ErrCyclicBOM) {
		t.Errorf("Expected ErrCyclicBOM, got %v", result.Errors)
	}
	if hasError(result.Errors, entities.ErrLevelMismatch) {
		t.Error("Level checks must not run on a cyclic structure")
	}
	want := []string{"A", "B", "A"}
	if !slices.Equal(result.CyclePaths[0], want) {
		t.Errorf("Expected cycle path %v, got %v", want, result.CyclePaths[0])
	}
}

func TestBOMValidator_DetectCycleBelowSeries(t *testing.T) {
	edges := append(chainEdges(), subList("SA", "A"))

	result := NewBOMValidator(LevelStrict).ValidateStructure(chainNodes(), edges, testItems)

	if !result.HasCycles {
		t.Fatal("Expected cycle to be detected")
	}
	var structErr *entities.StructureError
	if !errors.As(result.Errors[0], &structErr) || structErr.NodeID != "A" {
		t.Errorf("Expected cycle to be reported at node A, got %v", result.Errors[0])
	}
}

func TestBOMValidator_SelfLoop(t *testing.T) {
	nodes := []*entities.TechnicalListNode{node("A", entities.Assembly, "")}
	edges := []*entities.BOMEdge{subList("A", "A")}

	result := NewBOMValidator(LevelDescending).ValidateStructure(nodes, edges, nil)

	if !hasError(result.Errors, entities.ErrCyclicBOM) {
		t.Errorf("Expected self loop to be a cycle, got %v", result.Errors)
	}
}

func TestBOMValidator_LevelPolicy(t *testing.T) {
	// Series holds an Assembly directly
	nodes := []*entities.TechnicalListNode{
		node("S", entities.Series, ""),
		node("A", entities.Assembly, "S"),
	}
	edges := []*entities.BOMEdge{subList("S", "A"), component("A", "C1")}

	strict := NewBOMValidator(LevelStrict).ValidateStructure(nodes, edges, testItems)
	if !hasError(strict.Errors, entities.ErrLevelMismatch) {
		t.Errorf("Expected strict policy to reject a skipped level, got %v", strict.Errors)
	}

	descending := NewBOMValidator(LevelDescending).ValidateStructure(nodes, edges, testItems)
	if !descending.Valid() {
		t.Errorf("Expected descending policy to accept a skipped level, got %v", descending.Errors)
	}

	upward := []*entities.BOMEdge{subList("A", "S")}
	inverted := NewBOMValidator(LevelDescending).ValidateStructure(
		[]*entities.TechnicalListNode{node("S", entities.Series, ""), node("A", entities.Assembly, "")},
		upward, nil)
	if !hasError(inverted.Errors, entities.ErrLevelMismatch) {
		t.Errorf("Expected an upward edge to be rejected, got %v", inverted.Errors)
	}
}

func TestBOMValidator_SeriesWithParent(t *testing.T) {
	nodes := []*entities.TechnicalListNode{
		node("S1", entities.Series, ""),
		node("S2", entities.Series, "S1"),
	}

	result := NewBOMValidator(LevelDescending).ValidateStructure(nodes, nil, nil)

	if !hasError(result.Errors, entities.ErrLevelMismatch) {
		t.Errorf("Expected Series with parent to be a level mismatch, got %v", result.Errors)
	}
}

func TestBOMValidator_Orphans(t *testing.T) {
	nodes := append(chainNodes(),
		node("A2", entities.Assembly, "MISSING"),
		node("SY2", entities.System, ""),
		node("SA2", entities.Subassembly, "A2"),
	)

	result := NewBOMValidator(LevelStrict).ValidateStructure(nodes, chainEdges(), testItems)

	if !result.Valid() {
		t.Fatalf("Orphans must not be fatal, got %v", result.Errors)
	}
	want := []string{"A2", "SY2", "SA2"}
	if !slices.Equal(result.Orphaned, want) {
		t.Errorf("Expected orphans %v, got %v", want, result.Orphaned)
	}
}

func TestBOMValidator_DuplicateNode(t *testing.T) {
	nodes := append(chainNodes(), node("S", entities.Series, ""))

	result := NewBOMValidator(LevelStrict).ValidateStructure(nodes, chainEdges(), testItems)

	if !hasError(result.Errors, entities.ErrDuplicateID) {
		t.Errorf("Expected ErrDuplicateID, got %v", result.Errors)
	}
}

func TestBOMValidator_ValidateItemCodes(t *testing.T) {
	items := []*entities.Item{{ID: "1", Code: "X"}, {ID: "2", Code: "Y"}, {ID: "3", Code: "X"}}

	errs := NewBOMValidator(LevelStrict).ValidateItemCodes(items)

	if len(errs) != 1 || !errors.Is(errs[0], entities.ErrDuplicateID) {
		t.Errorf("Expected one duplicate code error, got %v", errs)
	}
}

func TestParseLevelPolicy(t *testing.T) {
	for input, want := range map[string]LevelPolicy{"": LevelStrict, "Strict": LevelStrict, "descending": LevelDescending} {
		got, err := ParseLevelPolicy(input)
		if err != nil || got != want {
			t.Errorf("ParseLevelPolicy(%q) = %v, %v; want %v", input, got, err, want)
		}
	}
	if _, err := ParseLevelPolicy("loose"); err == nil {
		t.Error("Expected error for unknown policy")
	}
}
