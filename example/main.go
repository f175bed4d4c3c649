package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bommrp/pkg/application/dto"
	"github.com/vsinha/bommrp/pkg/application/services/mrp"
	"github.com/vsinha/bommrp/pkg/domain/entities"
	"github.com/vsinha/bommrp/pkg/domain/repositories"
	"github.com/vsinha/bommrp/pkg/infrastructure/repositories/memory"
)

func main() {
	ctx := context.Background()

	catalog := memory.NewCatalog()
	if err := setupRoverCatalog(catalog); err != nil {
		log.Fatal(err)
	}

	service := mrp.NewMRPService(mrp.EngineConfig{Workers: 2})

	fmt.Println("🚀 Running MRP for the rover pilot batch...")
	result, err := service.Run(ctx, catalog)
	if err != nil {
		log.Fatalf("❌ MRP failed: %v", err)
	}

	fmt.Println("📊 MRP Results:")
	fmt.Printf("  Orders exploded: %d\n", result.Stats.Exploded)
	fmt.Printf("  Demand lines: %d\n", result.Stats.DemandLines)
	fmt.Printf("  Shortages: %d\n", result.Stats.Shortages)
	fmt.Println()

	for _, row := range dto.BuildRequirementReport(result, dto.RequirementReportOptions{IncludeCovered: true}) {
		fmt.Printf("  %-8s %-16s need %6s  stock %6s  short %6s  buy by %s\n",
			row.Code, row.Name,
			row.Necessary.StringFixed(2), row.InStock.StringFixed(2), row.Shortage.StringFixed(2),
			row.PurchaseDate.Format("2006-01-02"))
	}
}

// setupRoverCatalog loads a rover whose wheels appear under two systems,
// so the hub bolt is reached through two paths
func setupRoverCatalog(catalog repositories.Catalog) error {
	q := decimal.NewFromInt

	items := []*entities.Item{
		{ID: "BOLT", Code: "CMP-001", Name: "Hex bolt M8", UnitOfMeasure: "EA", Stock: q(20), LeadTimeDays: 3, Kind: entities.Component},
		{ID: "BEARING", Code: "CMP-002", Name: "Wheel bearing", UnitOfMeasure: "EA", Stock: q(4), LeadTimeDays: 10, Kind: entities.Component},
		{ID: "SHEET", Code: "RM-001", Name: "Aluminium sheet", UnitOfMeasure: "KG", Stock: q(50), LeadTimeDays: 20, Kind: entities.RawMaterial},
	}
	nodes := []*entities.TechnicalListNode{
		{ID: "ROVER", Code: "SER-01", Name: "Rover", Level: entities.Series},
		{ID: "FRONT", Code: "SYS-01", Name: "Front axle", Level: entities.System, ParentID: "ROVER"},
		{ID: "REAR", Code: "SYS-02", Name: "Rear axle", Level: entities.System, ParentID: "ROVER"},
		{ID: "WHEEL", Code: "ASM-01", Name: "Wheel", Level: entities.Assembly, ParentID: "FRONT"},
	}
	edges := []*entities.BOMEdge{
		{ParentID: "ROVER", SubListID: "FRONT", Quantity: q(1), Weighting: entities.DefaultWeighting},
		{ParentID: "ROVER", SubListID: "REAR", Quantity: q(1), Weighting: entities.DefaultWeighting},
		{ParentID: "FRONT", SubListID: "WHEEL", Quantity: q(2), Weighting: entities.DefaultWeighting},
		{ParentID: "REAR", SubListID: "WHEEL", Quantity: q(2), Weighting: entities.DefaultWeighting},
		{ParentID: "WHEEL", ComponentID: "BOLT", Quantity: q(6), Weighting: entities.DefaultWeighting},
		{ParentID: "WHEEL", ComponentID: "BEARING", Quantity: q(1), Weighting: q(50)},
		{ParentID: "FRONT", ComponentID: "SHEET", Quantity: decimal.RequireFromString("2.5"), Weighting: entities.DefaultWeighting},
	}
	orders := []*entities.ProductionOrder{
		{ID: "OP-001", RootNodeID: "ROVER", Quantity: q(3), DueDate: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), Label: "Pilot batch"},
	}

	if err := catalog.Items.LoadItems(items); err != nil {
		return err
	}
	if err := catalog.Nodes.LoadNodes(nodes); err != nil {
		return err
	}
	if err := catalog.BOM.LoadEdges(edges); err != nil {
		return err
	}
	return catalog.Orders.LoadOrders(orders)
}
