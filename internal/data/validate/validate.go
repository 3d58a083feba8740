// Package validate runs the fixed rule set over a merged record view.
// Fatal rules abort the whole candidate load; advisory rules are collected
// as warnings and never block publication.
package validate

import (
	"regexp"

	"github.com/zjrosen/starforge/internal/data/entities"
	"github.com/zjrosen/starforge/internal/data/merge"
)

// idPattern is the lowercase word-separated naming convention for ids.
var idPattern = regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)*$`)

// requiredCollections must be non-empty after merge. An empty required
// collection usually means the base pack file was missing or failed to
// decode. Tech edges are legitimately optional.
var requiredCollections = []entities.Collection{
	entities.ColSpecies,
	entities.ColPlanetSizes,
	entities.ColBuildings,
	entities.ColSatellites,
	entities.ColHulls,
	entities.ColEngines,
	entities.ColWeapons,
	entities.ColShields,
	entities.ColScanners,
	entities.ColTechs,
	entities.ColVictoryConditions,
	entities.ColScenarios,
}

// Check runs every rule over the merged result and returns all diagnostics.
func Check(m merge.Result) []Diagnostic {
	var diags []Diagnostic

	diags = append(diags, checkPresence(m)...)
	diags = append(diags, checkDuplicates(m)...)
	diags = append(diags, checkFields(m)...)
	diags = append(diags, checkReferences(m)...)
	diags = append(diags, checkTechGraph(m)...)
	diags = append(diags, checkConventions(m)...)

	return diags
}

func checkPresence(m merge.Result) []Diagnostic {
	counts := map[entities.Collection]int{
		entities.ColSpecies:           len(m.Species),
		entities.ColPlanetSizes:       len(m.PlanetSizes),
		entities.ColBuildings:         len(m.Buildings),
		entities.ColSatellites:        len(m.Satellites),
		entities.ColHulls:             len(m.Hulls),
		entities.ColEngines:           len(m.Engines),
		entities.ColWeapons:           len(m.Weapons),
		entities.ColShields:           len(m.Shields),
		entities.ColScanners:          len(m.Scanners),
		entities.ColTechs:             len(m.Techs),
		entities.ColVictoryConditions: len(m.VictoryConditions),
		entities.ColScenarios:         len(m.Scenarios),
	}

	var diags []Diagnostic
	for _, col := range requiredCollections {
		if counts[col] == 0 {
			diags = append(diags, Fatalf(col, "", "required collection has no records"))
		}
	}
	if m.VictoryRules == nil {
		diags = append(diags, Fatalf(entities.ColVictoryRules, "", "missing victory_rules record"))
	}
	return diags
}

// checkDuplicates re-checks id uniqueness after merge. The merge engine
// cannot produce duplicates, but the invariant is cheap to re-verify and
// protects against future merge changes.
func checkDuplicates(m merge.Result) []Diagnostic {
	var diags []Diagnostic
	dup := func(col entities.Collection, ids []string) {
		seen := map[string]bool{}
		for _, id := range ids {
			if seen[id] {
				diags = append(diags, Fatalf(col, id, "duplicate id after merge"))
			}
			seen[id] = true
		}
	}

	dup(entities.ColSpecies, idsOf(m.Species))
	dup(entities.ColPlanetSizes, idsOf(m.PlanetSizes))
	dup(entities.ColBuildings, idsOf(m.Buildings))
	dup(entities.ColSatellites, idsOf(m.Satellites))
	dup(entities.ColHulls, idsOf(m.Hulls))
	dup(entities.ColEngines, idsOf(m.Engines))
	dup(entities.ColWeapons, idsOf(m.Weapons))
	dup(entities.ColShields, idsOf(m.Shields))
	dup(entities.ColScanners, idsOf(m.Scanners))
	dup(entities.ColTechs, idsOf(m.Techs))
	dup(entities.ColTechEdges, idsOf(m.TechEdges))
	dup(entities.ColVictoryConditions, idsOf(m.VictoryConditions))
	dup(entities.ColScenarios, idsOf(m.Scenarios))

	return diags
}

func idsOf[T entities.Identified](items []T) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.EntityID()
	}
	return ids
}

// positive emits a fatal diagnostic when a must-be-positive value is <= 0.
func positive(diags []Diagnostic, col entities.Collection, id, field string, value float64) []Diagnostic {
	if value <= 0 {
		return append(diags, Fatalf(col, id, "%s must be positive (got %v)", field, value))
	}
	return diags
}

// nonNegative emits a fatal diagnostic when a value is < 0.
func nonNegative(diags []Diagnostic, col entities.Collection, id, field string, value float64) []Diagnostic {
	if value < 0 {
		return append(diags, Fatalf(col, id, "%s must be non-negative (got %v)", field, value))
	}
	return diags
}

func checkFields(m merge.Result) []Diagnostic {
	var diags []Diagnostic

	for _, size := range m.PlanetSizes {
		diags = positive(diags, entities.ColPlanetSizes, size.ID, "surface_slots", float64(size.SurfaceSlots))
		diags = positive(diags, entities.ColPlanetSizes, size.ID, "orbital_slots", float64(size.OrbitalSlots))
	}

	checkBuilding := func(col entities.Collection, b entities.Building) {
		diags = nonNegative(diags, col, b.ID, "industry_bonus", float64(b.IndustryBonus))
		diags = nonNegative(diags, col, b.ID, "research_bonus", float64(b.ResearchBonus))
		diags = nonNegative(diags, col, b.ID, "prosperity_bonus", float64(b.ProsperityBonus))
		diags = nonNegative(diags, col, b.ID, "max_population_bonus", float64(b.MaxPopulationBonus))
		diags = nonNegative(diags, col, b.ID, "industry_cost", float64(b.IndustryCost))
		diags = positive(diags, col, b.ID, "slot_size", float64(b.SlotSize))
	}
	for _, b := range m.Buildings {
		checkBuilding(entities.ColBuildings, b)
	}
	for _, s := range m.Satellites {
		checkBuilding(entities.ColSatellites, s)
	}

	for _, hull := range m.Hulls {
		diags = positive(diags, entities.ColHulls, hull.ID, "size_index", float64(hull.SizeIndex))
		diags = positive(diags, entities.ColHulls, hull.ID, "max_items", float64(hull.MaxItems))
	}

	for _, engine := range m.Engines {
		diags = nonNegative(diags, entities.ColEngines, engine.ID, "power_use", float64(engine.PowerUse))
		diags = nonNegative(diags, entities.ColEngines, engine.ID, "industry_cost", float64(engine.IndustryCost))
		diags = positive(diags, entities.ColEngines, engine.ID, "thrust_rating", engine.ThrustRating)
	}

	for _, weapon := range m.Weapons {
		diags = nonNegative(diags, entities.ColWeapons, weapon.ID, "power_use", float64(weapon.PowerUse))
		diags = nonNegative(diags, entities.ColWeapons, weapon.ID, "strength", weapon.Strength)
		diags = nonNegative(diags, entities.ColWeapons, weapon.ID, "industry_cost", float64(weapon.IndustryCost))
		diags = positive(diags, entities.ColWeapons, weapon.ID, "range", float64(weapon.Range))
		diags = positive(diags, entities.ColWeapons, weapon.ID, "uses_per_turn", float64(weapon.UsesPerTurn))
	}

	for _, shield := range m.Shields {
		diags = positive(diags, entities.ColShields, shield.ID, "strength", shield.Strength)
		diags = nonNegative(diags, entities.ColShields, shield.ID, "industry_cost", float64(shield.IndustryCost))
	}

	for _, scanner := range m.Scanners {
		diags = positive(diags, entities.ColScanners, scanner.ID, "range", float64(scanner.Range))
		diags = positive(diags, entities.ColScanners, scanner.ID, "strength", scanner.Strength)
		diags = nonNegative(diags, entities.ColScanners, scanner.ID, "industry_cost", float64(scanner.IndustryCost))
	}

	for _, tech := range m.Techs {
		diags = positive(diags, entities.ColTechs, tech.ID, "research_cost", float64(tech.ResearchCost))
	}

	for _, vc := range m.VictoryConditions {
		known := false
		for _, kind := range entities.VictoryKinds {
			if vc.Kind == kind {
				known = true
				break
			}
		}
		if !known {
			diags = append(diags, Fatalf(entities.ColVictoryConditions, vc.ID, "unknown victory kind %q", vc.Kind))
		}
	}

	for _, sc := range m.Scenarios {
		diags = positive(diags, entities.ColScenarios, sc.ID, "grid_width", float64(sc.GridWidth))
		diags = positive(diags, entities.ColScenarios, sc.ID, "grid_height", float64(sc.GridHeight))
		if sc.BlackRatio < 0 || sc.BlackRatio > 1 {
			diags = append(diags, Fatalf(entities.ColScenarios, sc.ID, "black_ratio must be in [0, 1] (got %v)", sc.BlackRatio))
		}
	}

	if m.VictoryRules != nil {
		t := m.VictoryRules.DominationThreshold
		if t <= 0 || t > 1 {
			diags = append(diags, Fatalf(entities.ColVictoryRules, "", "domination_threshold must be in (0, 1] (got %v)", t))
		}
	}

	return diags
}

func checkReferences(m merge.Result) []Diagnostic {
	var diags []Diagnostic

	techIDs := map[string]bool{}
	for _, tech := range m.Techs {
		techIDs[tech.ID] = true
	}
	buildingIDs := map[string]bool{}
	for _, b := range m.Buildings {
		buildingIDs[b.ID] = true
	}
	victoryIDs := map[string]bool{}
	for _, vc := range m.VictoryConditions {
		victoryIDs[vc.ID] = true
	}

	techRef := func(col entities.Collection, id, techID string) {
		if techID != "" && !techIDs[techID] {
			diags = append(diags, Fatalf(col, id, "tech_id %q does not resolve to a technology", techID))
		}
	}
	for _, b := range m.Buildings {
		techRef(entities.ColBuildings, b.ID, b.TechID)
	}
	for _, s := range m.Satellites {
		techRef(entities.ColSatellites, s.ID, s.TechID)
	}
	for _, w := range m.Weapons {
		techRef(entities.ColWeapons, w.ID, w.TechID)
	}

	for _, edge := range m.TechEdges {
		if !techIDs[edge.From] {
			diags = append(diags, Fatalf(entities.ColTechEdges, edge.EntityID(), "from %q does not resolve to a technology", edge.From))
		}
		if !techIDs[edge.To] {
			diags = append(diags, Fatalf(entities.ColTechEdges, edge.EntityID(), "to %q does not resolve to a technology", edge.To))
		}
		if edge.From == edge.To {
			diags = append(diags, Fatalf(entities.ColTechEdges, edge.EntityID(), "self-referential prerequisite"))
		}
	}

	for _, sc := range m.Scenarios {
		if !buildingIDs[sc.StartBuildingID] {
			diags = append(diags, Fatalf(entities.ColScenarios, sc.ID, "start_building_id %q does not resolve to a building", sc.StartBuildingID))
		}
		if !victoryIDs[sc.VictoryConditionID] {
			diags = append(diags, Fatalf(entities.ColScenarios, sc.ID, "victory_condition_id %q does not resolve to a victory condition", sc.VictoryConditionID))
		}
	}

	return diags
}

// checkTechGraph rejects prerequisite cycles. A cyclic research graph has
// no valid research order, so it is fatal like an unresolved reference.
func checkTechGraph(m merge.Result) []Diagnostic {
	indegree := map[string]int{}
	next := map[string][]string{}
	for _, tech := range m.Techs {
		indegree[tech.ID] = 0
	}
	for _, edge := range m.TechEdges {
		if _, ok := indegree[edge.From]; !ok {
			continue // unresolved endpoints reported by checkReferences
		}
		if _, ok := indegree[edge.To]; !ok {
			continue
		}
		next[edge.From] = append(next[edge.From], edge.To)
		indegree[edge.To]++
	}

	queue := make([]string, 0, len(indegree))
	for id, deg := range indegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}
	visited := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++
		for _, to := range next[id] {
			indegree[to]--
			if indegree[to] == 0 {
				queue = append(queue, to)
			}
		}
	}

	if visited < len(indegree) {
		return []Diagnostic{Fatalf(entities.ColTechEdges, "", "prerequisite edges form a cycle")}
	}
	return nil
}

// checkConventions runs the advisory rules: missing non-English locales and
// ids outside the lowercase word-separated naming convention.
func checkConventions(m merge.Result) []Diagnostic {
	var diags []Diagnostic

	check := func(col entities.Collection, id string, name entities.LocalizedText) {
		if !idPattern.MatchString(id) {
			diags = append(diags, Advisoryf(col, id, "id does not follow lowercase_words naming"))
		}
		for _, locale := range entities.Locales {
			if locale == entities.LocaleEN {
				continue
			}
			if !name.Has(locale) {
				diags = append(diags, Advisoryf(col, id, "missing %q localization for name", locale))
			}
		}
	}

	for _, v := range m.Species {
		check(entities.ColSpecies, v.ID, v.Name)
	}
	for _, v := range m.PlanetSizes {
		check(entities.ColPlanetSizes, v.ID, v.Name)
	}
	for _, v := range m.Buildings {
		check(entities.ColBuildings, v.ID, v.Name)
	}
	for _, v := range m.Satellites {
		check(entities.ColSatellites, v.ID, v.Name)
	}
	for _, v := range m.Hulls {
		check(entities.ColHulls, v.ID, v.Name)
	}
	for _, v := range m.Engines {
		check(entities.ColEngines, v.ID, v.Name)
	}
	for _, v := range m.Weapons {
		check(entities.ColWeapons, v.ID, v.Name)
	}
	for _, v := range m.Shields {
		check(entities.ColShields, v.ID, v.Name)
	}
	for _, v := range m.Scanners {
		check(entities.ColScanners, v.ID, v.Name)
	}
	for _, v := range m.Techs {
		check(entities.ColTechs, v.ID, v.Name)
	}
	for _, v := range m.VictoryConditions {
		check(entities.ColVictoryConditions, v.ID, v.Name)
	}
	for _, v := range m.Scenarios {
		check(entities.ColScenarios, v.ID, v.Name)
	}

	return diags
}
