package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zjrosen/starforge/internal/data/decode"
	"github.com/zjrosen/starforge/internal/data/entities"
	"github.com/zjrosen/starforge/internal/data/pipeline"
	"github.com/zjrosen/starforge/internal/data/registry"
)

var showCmd = &cobra.Command{
	Use:   "show <collection> [id]",
	Short: "Load the data and print a collection or a single record",
	Long: `Runs one load and prints the merged view of a collection, including
derived stats and which source each record came from. With an id argument,
prints just that record.

Collections: ` + collectionList(),
	Args: cobra.RangeArgs(1, 2),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func collectionList() string {
	names := make([]string, 0, len(entities.Collections))
	for _, col := range entities.Collections {
		names = append(names, string(col))
	}
	return strings.Join(names, ", ")
}

func runShow(cmd *cobra.Command, args []string) error {
	col := entities.Collection(args[0])
	if decode.StemForCollection(col) == "" {
		return fmt.Errorf("unknown collection %q (want one of: %s)", args[0], collectionList())
	}

	loader := pipeline.NewLoader(cfg.DataDir, cfg.ModsDir, nil)
	snap, err := loader.Load(cmd.Context())
	if err != nil {
		printLoadError(cmd, err)
		return fmt.Errorf("load failed")
	}

	var filter string
	if len(args) == 2 {
		filter = args[1]
	}

	locale := entities.Locale(cfg.Locale)
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	reg := snap.Registry
	rows, err := collectionRows(reg, col, locale)
	if err != nil {
		return err
	}

	matched := false
	for i, row := range rows {
		if filter != "" && row.id != filter {
			continue
		}
		matched = true
		if i == 0 || filter != "" {
			fmt.Fprintln(w, rowHeader(col))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", row.id, row.name, row.detail, reg.Origin(col, row.id))
	}
	if filter != "" && !matched {
		return fmt.Errorf("no %s record with id %q", col, filter)
	}
	return nil
}

type showRow struct {
	id     string
	name   string
	detail string
}

func rowHeader(col entities.Collection) string {
	switch col {
	case entities.ColWeapons:
		return "ID\tNAME\tDPS\tSOURCE"
	case entities.ColEngines:
		return "ID\tNAME\tEFFICIENCY\tSOURCE"
	case entities.ColBuildings, entities.ColSatellites:
		return "ID\tNAME\tTOTAL BONUS\tSOURCE"
	case entities.ColTechs:
		return "ID\tNAME\tDEPTH\tSOURCE"
	default:
		return "ID\tNAME\tDETAIL\tSOURCE"
	}
}

// collectionRows flattens one collection into display rows with the most
// useful derived stat as the detail column.
func collectionRows(reg *registry.Registry, col entities.Collection, locale entities.Locale) ([]showRow, error) {
	var rows []showRow
	switch col {
	case entities.ColSpecies:
		for _, v := range reg.Species().All() {
			rows = append(rows, showRow{v.ID, v.Name.Get(locale), "-"})
		}
	case entities.ColPlanetSizes:
		for _, v := range reg.PlanetSizes().All() {
			detail := fmt.Sprintf("%d surface / %d orbital", v.SurfaceSlots, v.OrbitalSlots)
			rows = append(rows, showRow{v.ID, v.Name.Get(locale), detail})
		}
	case entities.ColBuildings:
		for i, v := range reg.Buildings().All() {
			stats := reg.BuildingStats(registry.Ref[registry.BuildingID](i))
			rows = append(rows, showRow{v.ID, v.Name.Get(locale), fmt.Sprintf("%d", stats.TotalBonus)})
		}
	case entities.ColSatellites:
		for i, v := range reg.Satellites().All() {
			stats := reg.SatelliteStats(registry.Ref[registry.SatelliteID](i))
			rows = append(rows, showRow{v.ID, v.Name.Get(locale), fmt.Sprintf("%d", stats.TotalBonus)})
		}
	case entities.ColHulls:
		for _, v := range reg.Hulls().All() {
			detail := fmt.Sprintf("size %d, %d items", v.SizeIndex, v.MaxItems)
			rows = append(rows, showRow{v.ID, v.Name.Get(locale), detail})
		}
	case entities.ColEngines:
		for i, v := range reg.Engines().All() {
			stats := reg.EngineStats(registry.Ref[registry.EngineID](i))
			detail := "-"
			if stats.HasEfficiency {
				detail = fmt.Sprintf("%.2f", stats.Efficiency)
			}
			rows = append(rows, showRow{v.ID, v.Name.Get(locale), detail})
		}
	case entities.ColWeapons:
		for i, v := range reg.Weapons().All() {
			stats := reg.WeaponStats(registry.Ref[registry.WeaponID](i))
			rows = append(rows, showRow{v.ID, v.Name.Get(locale), fmt.Sprintf("%.1f", stats.DamagePerTurn)})
		}
	case entities.ColShields:
		for _, v := range reg.Shields().All() {
			rows = append(rows, showRow{v.ID, v.Name.Get(locale), fmt.Sprintf("%.1f", v.Strength)})
		}
	case entities.ColScanners:
		for _, v := range reg.Scanners().All() {
			detail := fmt.Sprintf("range %d, strength %.1f", v.Range, v.Strength)
			rows = append(rows, showRow{v.ID, v.Name.Get(locale), detail})
		}
	case entities.ColTechs:
		for i, v := range reg.Techs().All() {
			stats := reg.TechStats(registry.Ref[registry.TechID](i))
			rows = append(rows, showRow{v.ID, v.Name.Get(locale), fmt.Sprintf("%d", stats.Depth)})
		}
	case entities.ColTechEdges:
		for _, v := range reg.Techs().All() {
			ref, _ := reg.Techs().Resolve(registry.TechID(v.ID))
			for _, next := range reg.Unlocks(ref) {
				to, _ := reg.Techs().Get(next)
				rows = append(rows, showRow{v.ID + "->" + to.ID, "-", "-"})
			}
		}
	case entities.ColVictoryConditions:
		for _, v := range reg.VictoryConditions().All() {
			rows = append(rows, showRow{v.ID, v.Name.Get(locale), v.Kind})
		}
	case entities.ColScenarios:
		for _, v := range reg.Scenarios().All() {
			detail := fmt.Sprintf("%dx%d, black %.2f", v.GridWidth, v.GridHeight, v.BlackRatio)
			rows = append(rows, showRow{v.ID, v.Name.Get(locale), detail})
		}
	case entities.ColVictoryRules:
		rules := reg.VictoryRules()
		rows = append(rows, showRow{"victory_rules", "-", fmt.Sprintf("domination %.2f", rules.DominationThreshold)})
	default:
		return nil, fmt.Errorf("unknown collection %q", col)
	}
	return rows, nil
}
