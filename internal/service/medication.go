package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/janghjun/healthlog/internal/model"
	"github.com/janghjun/healthlog/internal/store"
)

const topMedicationCount = 5

type MedicationInput struct {
	Name   string   `json:"name"`
	Type   string   `json:"type,omitempty"`
	Dosage string   `json:"dosage,omitempty"`
	Usage  string   `json:"usage,omitempty"`
	Times  []string `json:"times"`
	Memo   string   `json:"memo,omitempty"`
}

type MedicationPatch struct {
	Name    *string   `json:"name,omitempty"`
	Type    *string   `json:"type,omitempty"`
	Dosage  *string   `json:"dosage,omitempty"`
	Usage   *string   `json:"usage,omitempty"`
	Times   *[]string `json:"times,omitempty"`
	Checked *bool     `json:"checked,omitempty"`
	Memo    *string   `json:"memo,omitempty"`
}

type MedicationCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// AdherenceReport counts scheduled and taken doses over a date range.
type AdherenceReport struct {
	Total         int               `json:"total"`
	Taken         int               `json:"taken"`
	Rate          float64           `json:"rate"`
	ByTime        map[string]int    `json:"byTime"`
	CheckedByTime map[string]int    `json:"checkedByTime"`
	Top           []MedicationCount `json:"top"`
}

type Medication struct {
	env
	meds      *store.Value[model.MedicationStore]
	symptoms  *store.Value[[]string]
	favorites *namedList[model.FavoriteMedication]
}

// favoriteMedKeys identifies a favorite drug by its product name and, when
// the lookup service supplied one, its product sequence number. Either match
// makes two entries the same product.
func favoriteMedKeys(f model.FavoriteMedication) []string {
	name := normalizeName(f.Name)
	if name == "" {
		return nil
	}
	keys := []string{"name:" + name}
	if seq := strings.TrimSpace(f.ID); seq != "" {
		keys = append(keys, "seq:"+seq)
	}
	return keys
}

func newMedication(e env, backend store.Backend) *Medication {
	return &Medication{
		env: e,
		meds: store.NewValue(KeyMedications, backend, e.logger,
			func() model.MedicationStore { return model.MedicationStore{} }, cloneMedicationStore),
		symptoms: store.NewValue(KeySymptoms, backend, e.logger,
			func() []string { return []string{} }, cloneSlice[string]),
		favorites: newNamedList(e, backend, KeyFavoriteMeds, "favorite medication",
			favoriteMedKeys,
			func(f model.FavoriteMedication) string { return f.ID },
			func(f model.FavoriteMedication, id string, at time.Time) model.FavoriteMedication {
				f.ID = id
				f.CreatedAt = at
				f.Name = normalizeName(f.Name)
				return f
			}),
	}
}

func cleanTimes(times []string) []string {
	out := make([]string, 0, len(times))
	for _, t := range times {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// AddMedication schedules a medication on date. At least one dose time is
// required; the entry starts unchecked.
func (m *Medication) AddMedication(ctx context.Context, date string, in MedicationInput) (model.Medication, error) {
	const op = "add medication"
	date, err := validateDate(op, date)
	if err != nil {
		return model.Medication{}, err
	}
	if normalizeName(in.Name) == "" {
		return model.Medication{}, &ValidationError{Op: op, Field: "name"}
	}
	times := cleanTimes(in.Times)
	if len(times) == 0 {
		return model.Medication{}, &ValidationError{Op: op, Field: "times"}
	}

	med := model.Medication{
		ID:        m.newID(),
		CreatedAt: m.now().UTC(),
		Name:      normalizeName(in.Name),
		Type:      in.Type,
		Dosage:    in.Dosage,
		Usage:     in.Usage,
		Times:     times,
		Memo:      in.Memo,
	}
	err = m.meds.Update(ctx, func(meds model.MedicationStore) (model.MedicationStore, error) {
		meds[date] = append(meds[date], cloneMedication(med))
		return meds, nil
	})
	if err != nil {
		return med, fmt.Errorf("%s: %w", op, err)
	}
	return med, nil
}

func (m *Medication) UpdateMedication(ctx context.Context, date, id string, patch MedicationPatch) (model.Medication, bool, error) {
	if patch.Times != nil && len(cleanTimes(*patch.Times)) == 0 {
		return model.Medication{}, false, &ValidationError{Op: "update medication", Field: "times"}
	}
	var updated model.Medication
	found := false
	err := m.meds.Update(ctx, func(meds model.MedicationStore) (model.MedicationStore, error) {
		items := meds[date]
		for i := range items {
			if items[i].ID != id {
				continue
			}
			med := items[i]
			if patch.Name != nil {
				med.Name = normalizeName(*patch.Name)
			}
			med.Type = stringOr(med.Type, patch.Type)
			med.Dosage = stringOr(med.Dosage, patch.Dosage)
			med.Usage = stringOr(med.Usage, patch.Usage)
			med.Memo = stringOr(med.Memo, patch.Memo)
			if patch.Times != nil {
				med.Times = cleanTimes(*patch.Times)
			}
			if patch.Checked != nil {
				med.Checked = *patch.Checked
			}
			items[i] = med
			updated = cloneMedication(med)
			found = true
			return meds, nil
		}
		return nil, errNoChange
	})
	if err = ignoreNoChange(err); err != nil {
		return updated, found, fmt.Errorf("update medication: %w", err)
	}
	return updated, found, nil
}

// DeleteMedication removes an entry; a date left with no entries is dropped
// from the store.
func (m *Medication) DeleteMedication(ctx context.Context, date, id string) (bool, error) {
	removed := false
	err := m.meds.Update(ctx, func(meds model.MedicationStore) (model.MedicationStore, error) {
		items, ok := meds[date]
		if !ok {
			return nil, errNoChange
		}
		kept := make([]model.Medication, 0, len(items))
		for _, med := range items {
			if med.ID == id {
				removed = true
				continue
			}
			kept = append(kept, med)
		}
		if !removed {
			return nil, errNoChange
		}
		if len(kept) == 0 {
			delete(meds, date)
		} else {
			meds[date] = kept
		}
		return meds, nil
	})
	if err = ignoreNoChange(err); err != nil {
		return removed, fmt.Errorf("delete medication: %w", err)
	}
	return removed, nil
}

// ToggleChecked flips the taken flag. It returns the new flag and whether
// the entry exists.
func (m *Medication) ToggleChecked(ctx context.Context, date, id string) (bool, bool, error) {
	checked, found := false, false
	err := m.meds.Update(ctx, func(meds model.MedicationStore) (model.MedicationStore, error) {
		items := meds[date]
		for i := range items {
			if items[i].ID == id {
				items[i].Checked = !items[i].Checked
				checked = items[i].Checked
				found = true
				return meds, nil
			}
		}
		return nil, errNoChange
	})
	if err = ignoreNoChange(err); err != nil {
		return checked, found, fmt.Errorf("toggle medication: %w", err)
	}
	return checked, found, nil
}

func (m *Medication) MedicationsByDate(date string) []model.Medication {
	items := m.meds.Get()[date]
	if items == nil {
		return []model.Medication{}
	}
	return items
}

func (m *Medication) MedicationsByRange(start, end string) ([]model.Medication, error) {
	meds := m.meds.Get()
	out := []model.Medication{}
	err := store.EachDate(start, end, func(date string) {
		out = append(out, meds[date]...)
	})
	if err != nil {
		return nil, fmt.Errorf("medication range: %w", err)
	}
	return out, nil
}

// Adherence reports how many scheduled entries were taken between start and
// end inclusive, broken down by dose time, plus the most frequent names.
func (m *Medication) Adherence(start, end string) (AdherenceReport, error) {
	meds, err := m.MedicationsByRange(start, end)
	if err != nil {
		return AdherenceReport{}, err
	}
	report := AdherenceReport{
		ByTime:        make(map[string]int, len(model.DoseTimes)),
		CheckedByTime: make(map[string]int, len(model.DoseTimes)),
		Top:           []MedicationCount{},
	}
	for _, t := range model.DoseTimes {
		report.ByTime[t] = 0
		report.CheckedByTime[t] = 0
	}
	counts := map[string]int{}
	for _, med := range meds {
		report.Total++
		if med.Checked {
			report.Taken++
		}
		counts[med.Name]++
		for _, t := range med.Times {
			report.ByTime[t]++
			if med.Checked {
				report.CheckedByTime[t]++
			}
		}
	}
	if report.Total > 0 {
		report.Rate = float64(report.Taken) / float64(report.Total)
	}
	for name, count := range counts {
		report.Top = append(report.Top, MedicationCount{Name: name, Count: count})
	}
	sort.Slice(report.Top, func(i, j int) bool {
		if report.Top[i].Count != report.Top[j].Count {
			return report.Top[i].Count > report.Top[j].Count
		}
		return report.Top[i].Name < report.Top[j].Name
	})
	if len(report.Top) > topMedicationCount {
		report.Top = report.Top[:topMedicationCount]
	}
	return report, nil
}

// RecordPresence marks every date that holds at least one entry.
func (m *Medication) RecordPresence() map[string]bool {
	out := map[string]bool{}
	for date, items := range m.meds.Get() {
		out[date] = len(items) > 0
	}
	return out
}

func (m *Medication) Symptoms() []string {
	return m.symptoms.Get()
}

func (m *Medication) SetSymptoms(ctx context.Context, symptoms []string) error {
	cleaned := make([]string, 0, len(symptoms))
	for _, s := range symptoms {
		if s = strings.TrimSpace(s); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	if err := m.symptoms.Replace(ctx, cleaned); err != nil {
		return fmt.Errorf("set symptoms: %w", err)
	}
	return nil
}

var supplementRules = []struct {
	keyword    string
	supplement string
}{
	{"피로", "비타민B군"},
	{"면역", "아연"},
	{"소화", "프로바이오틱스"},
}

// RecommendSupplements suggests supplements for symptoms containing a known
// keyword, each at most once, in first-seen order.
func RecommendSupplements(symptoms []string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, s := range symptoms {
		for _, rule := range supplementRules {
			if strings.Contains(s, rule.keyword) && !seen[rule.supplement] {
				seen[rule.supplement] = true
				out = append(out, rule.supplement)
			}
		}
	}
	return out
}

func (m *Medication) Favorites() []model.FavoriteMedication {
	return m.favorites.items()
}

func (m *Medication) IsFavorite(id string) bool {
	for _, f := range m.favorites.items() {
		if f.ID == id {
			return true
		}
	}
	return false
}

// AddFavorite keeps a looked-up product. A product already saved under the
// same name or the same sequence number is not added again.
func (m *Medication) AddFavorite(ctx context.Context, fav model.FavoriteMedication) (model.FavoriteMedication, bool, error) {
	return m.favorites.add(ctx, fav)
}

func (m *Medication) RemoveFavorite(ctx context.Context, id string) (bool, error) {
	return m.favorites.remove(ctx, id)
}

func (m *Medication) ToggleFavorite(ctx context.Context, fav model.FavoriteMedication) (bool, error) {
	return m.favorites.toggle(ctx, fav)
}
