package history

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/RogerTapfit/tapfit-ai-sync-sub003/internal/assistant/model"
)

const dateLayout = "2006-01-02"

// Section order is deterministic and fixed: profile, workouts, cardio, food,
// hydration, sleep, alcohol, personal records, summary stats. Downstream
// prompt blocks reference these sections by name.
func render(snap *snapshot, now time.Time, cfg model.PromptConfig) string {
	var b strings.Builder

	renderProfile(&b, snap.profile)
	renderWorkouts(&b, snap.workouts, cfg.HistoryDays)
	renderCardio(&b, snap.runs, snap.rides, snap.swims, cfg.HistoryDays)
	renderFood(&b, snap.meals, cfg.HistoryDays)
	renderHydration(&b, snap.hydration, cfg.HistoryDays)
	renderSleep(&b, snap.sleep, cfg.HistoryDays)
	renderAlcohol(&b, snap.alcohol, cfg.HistoryDays)
	renderRecords(&b, snap.records, cfg.MaxPersonalRecords)
	renderSummary(&b, snap, cfg.HistoryDays)

	return strings.TrimRight(b.String(), "\n")
}

func renderProfile(b *strings.Builder, p *model.Profile) {
	b.WriteString("USER PROFILE:\n")
	if p == nil {
		b.WriteString("No profile on record.\n\n")
		return
	}
	parts := []string{}
	if p.Name != "" {
		parts = append(parts, "Name: "+p.Name)
	}
	if p.Age > 0 {
		parts = append(parts, fmt.Sprintf("Age: %d", p.Age))
	}
	if p.WeightKG > 0 {
		parts = append(parts, fmt.Sprintf("Weight: %.1fkg", p.WeightKG))
	}
	if p.HeightCM > 0 {
		parts = append(parts, fmt.Sprintf("Height: %.0fcm", p.HeightCM))
	}
	if p.Goal != "" {
		parts = append(parts, "Goal: "+p.Goal)
	}
	if len(parts) == 0 {
		b.WriteString("No profile on record.\n\n")
		return
	}
	b.WriteString(strings.Join(parts, " | "))
	b.WriteString("\n\n")
}

func renderWorkouts(b *strings.Builder, sessions []model.WorkoutSession, days int) {
	fmt.Fprintf(b, "WORKOUT HISTORY (last %d days):\n", days)
	if len(sessions) == 0 {
		b.WriteString("No workouts logged.\n\n")
		return
	}

	byDate := map[string][]model.WorkoutSession{}
	for _, ws := range sessions {
		key := ws.Date.Format(dateLayout)
		byDate[key] = append(byDate[key], ws)
	}
	for _, date := range sortedKeys(byDate) {
		for _, ws := range byDate[date] {
			fmt.Fprintf(b, "%s: %s", date, ws.Name)
			if ws.MuscleGroup != "" {
				fmt.Fprintf(b, " (%s)", ws.MuscleGroup)
			}
			fmt.Fprintf(b, " - %d min, %d kcal\n", ws.DurationMin, ws.Calories)
			for _, ex := range ws.Exercises {
				fmt.Fprintf(b, "  - %s %dx%d @ %.1fkg\n", ex.Name, ex.Sets, ex.Reps, ex.WeightKG)
			}
		}
	}
	b.WriteString("\n")
}

func renderCardio(b *strings.Builder, runs, rides, swims []model.CardioSession, days int) {
	fmt.Fprintf(b, "CARDIO SESSIONS (last %d days):\n", days)
	all := make([]model.CardioSession, 0, len(runs)+len(rides)+len(swims))
	all = append(all, runs...)
	all = append(all, rides...)
	all = append(all, swims...)
	if len(all) == 0 {
		b.WriteString("No cardio sessions logged.\n\n")
		return
	}
	sort.Slice(all, func(i, j int) bool { return all[i].StartedAt.Before(all[j].StartedAt) })
	for _, c := range all {
		fmt.Fprintf(b, "%s %s: %s in %d min",
			c.StartedAt.Format(dateLayout), c.Kind, formatDistance(c), c.DurationMin)
		if c.AvgHeartRate > 0 {
			fmt.Fprintf(b, ", avg HR %d", c.AvgHeartRate)
		}
		if c.Calories > 0 {
			fmt.Fprintf(b, ", %d kcal", c.Calories)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

// formatDistance converts meters to kilometers for run/ride display only;
// swims stay in meters. Stored values are untouched.
func formatDistance(c model.CardioSession) string {
	if c.Kind == model.CardioSwim {
		return fmt.Sprintf("%.0f m", c.DistanceM)
	}
	return fmt.Sprintf("%.1f km", c.DistanceM/1000)
}

func renderFood(b *strings.Builder, meals []model.MealEntry, days int) {
	fmt.Fprintf(b, "FOOD HISTORY (last %d days):\n", days)
	if len(meals) == 0 {
		b.WriteString("No food entries logged.\n\n")
		return
	}

	byDate := map[string][]model.MealEntry{}
	for _, m := range meals {
		key := m.LoggedAt.Format(dateLayout)
		byDate[key] = append(byDate[key], m)
	}
	for _, date := range sortedKeys(byDate) {
		var cal, protein, carbs, fat float64
		for _, m := range byDate[date] {
			cal += m.Calories
			protein += m.Protein
			carbs += m.Carbs
			fat += m.Fat
		}
		fmt.Fprintf(b, "%s (%.0f kcal, %.0fg protein, %.0fg carbs, %.0fg fat):\n",
			date, cal, protein, carbs, fat)
		for _, m := range byDate[date] {
			fmt.Fprintf(b, "  - %s: %s (%.0f kcal)\n", m.MealType, m.Description, m.Calories)
		}
	}
	b.WriteString("\n")
}

func renderHydration(b *strings.Builder, entries []model.HydrationEntry, days int) {
	fmt.Fprintf(b, "HYDRATION (last %d days):\n", days)
	if len(entries) == 0 {
		b.WriteString("No hydration entries logged.\n\n")
		return
	}

	type dayTotal struct {
		ml    int
		count int
	}
	byDate := map[string]*dayTotal{}
	for _, h := range entries {
		key := h.LoggedAt.Format(dateLayout)
		if byDate[key] == nil {
			byDate[key] = &dayTotal{}
		}
		byDate[key].ml += h.AmountML
		byDate[key].count++
	}
	for _, date := range sortedKeys(byDate) {
		t := byDate[date]
		fmt.Fprintf(b, "%s: %d ml across %d entries\n", date, t.ml, t.count)
	}
	b.WriteString("\n")
}

func renderSleep(b *strings.Builder, entries []model.SleepEntry, days int) {
	fmt.Fprintf(b, "SLEEP (last %d days):\n", days)
	if len(entries) == 0 {
		b.WriteString("No sleep entries logged.\n\n")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(b, "%s: %.1fh, quality %d/5", e.Date, e.DurationHours, e.QualityScore)
		if e.Notes != "" {
			fmt.Fprintf(b, " (%s)", e.Notes)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func renderAlcohol(b *strings.Builder, entries []model.AlcoholEntry, days int) {
	fmt.Fprintf(b, "ALCOHOL (last %d days):\n", days)
	if len(entries) == 0 {
		b.WriteString("No alcohol entries logged.\n\n")
		return
	}

	byDate := map[string][]model.AlcoholEntry{}
	for _, a := range entries {
		key := a.LoggedAt.Format(dateLayout)
		byDate[key] = append(byDate[key], a)
	}
	for _, date := range sortedKeys(byDate) {
		var units float64
		var cal int
		for _, a := range byDate[date] {
			units += a.Units
			cal += a.Calories
		}
		fmt.Fprintf(b, "%s: %.1f units (%d kcal)\n", date, units, cal)
	}
	b.WriteString("\n")
}

func renderRecords(b *strings.Builder, records []model.PersonalRecord, limit int) {
	fmt.Fprintf(b, "PERSONAL RECORDS (most recent %d):\n", limit)
	if len(records) == 0 {
		b.WriteString("No personal records logged.\n\n")
		return
	}
	// Store returns records newest-first and already capped.
	for _, r := range records {
		fmt.Fprintf(b, "%s %s: %.1f %s (%s)\n",
			r.Exercise, r.Metric, r.Value, r.Unit, r.AchievedAt.Format(dateLayout))
	}
	b.WriteString("\n")
}

func renderSummary(b *strings.Builder, snap *snapshot, days int) {
	fmt.Fprintf(b, "SUMMARY STATS (last %d days):\n", days)

	var workoutMin, workoutCal int
	for _, ws := range snap.workouts {
		workoutMin += ws.DurationMin
		workoutCal += ws.Calories
	}
	if n := len(snap.workouts); n > 0 {
		fmt.Fprintf(b, "Workouts: %d (total %d min, avg %d min, %d kcal burned)\n",
			n, workoutMin, workoutMin/n, workoutCal)
	} else {
		b.WriteString("Workouts: none\n")
	}

	cardioCount := len(snap.runs) + len(snap.rides) + len(snap.swims)
	if cardioCount > 0 {
		var distM float64
		for _, c := range snap.runs {
			distM += c.DistanceM
		}
		for _, c := range snap.rides {
			distM += c.DistanceM
		}
		for _, c := range snap.swims {
			distM += c.DistanceM
		}
		fmt.Fprintf(b, "Cardio: %d sessions, %.1f km total\n", cardioCount, distM/1000)
	} else {
		b.WriteString("Cardio: none\n")
	}

	if len(snap.meals) > 0 {
		var cal float64
		daysLogged := map[string]bool{}
		for _, m := range snap.meals {
			cal += m.Calories
			daysLogged[m.LoggedAt.Format(dateLayout)] = true
		}
		fmt.Fprintf(b, "Calories eaten: avg %.0f/day over %d logged days\n",
			cal/float64(len(daysLogged)), len(daysLogged))
	} else {
		b.WriteString("Calories eaten: no food logged\n")
	}

	if len(snap.hydration) > 0 {
		total := 0
		daysLogged := map[string]bool{}
		for _, h := range snap.hydration {
			total += h.AmountML
			daysLogged[h.LoggedAt.Format(dateLayout)] = true
		}
		fmt.Fprintf(b, "Hydration: avg %d ml/day over %d logged days\n",
			total/len(daysLogged), len(daysLogged))
	} else {
		b.WriteString("Hydration: none logged\n")
	}

	if len(snap.sleep) > 0 {
		var hours float64
		for _, e := range snap.sleep {
			hours += e.DurationHours
		}
		fmt.Fprintf(b, "Sleep: avg %.1fh over %d nights\n",
			hours/float64(len(snap.sleep)), len(snap.sleep))
	} else {
		b.WriteString("Sleep: none logged\n")
	}

	if len(snap.alcohol) > 0 {
		var units float64
		for _, a := range snap.alcohol {
			units += a.Units
		}
		fmt.Fprintf(b, "Alcohol: %.1f units total\n", units)
	} else {
		b.WriteString("Alcohol: none logged\n")
	}
}

func renderToday(now time.Time, meals []model.MealEntry, hydration []model.HydrationEntry,
	workouts []model.WorkoutSession, sleep []model.SleepEntry, hydrationGoalML int) string {

	var b strings.Builder
	fmt.Fprintf(&b, "TODAY'S SNAPSHOT (%s):\n", now.Format(dateLayout))

	if len(meals) > 0 {
		var cal, protein, carbs, fat float64
		for _, m := range meals {
			cal += m.Calories
			protein += m.Protein
			carbs += m.Carbs
			fat += m.Fat
		}
		fmt.Fprintf(&b, "Meals: %d logged, %.0f kcal (%.0fg protein, %.0fg carbs, %.0fg fat)\n",
			len(meals), cal, protein, carbs, fat)
	} else {
		b.WriteString("Meals: none logged yet\n")
	}

	total := 0
	for _, h := range hydration {
		total += h.AmountML
	}
	fmt.Fprintf(&b, "Hydration: %d ml of %d ml goal\n", total, hydrationGoalML)

	if len(workouts) > 0 {
		names := make([]string, 0, len(workouts))
		for _, ws := range workouts {
			names = append(names, ws.Name)
		}
		fmt.Fprintf(&b, "Workout: completed - %s\n", strings.Join(names, ", "))
	} else {
		b.WriteString("Workout: none yet\n")
	}

	if len(sleep) > 0 {
		last := sleep[len(sleep)-1]
		fmt.Fprintf(&b, "Last night's sleep: %.1fh, quality %d/5\n", last.DurationHours, last.QualityScore)
	} else {
		b.WriteString("Last night's sleep: not logged\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
