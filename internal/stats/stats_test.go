// stats_test.go provides the in-memory fakes shared by the ingestion and
// projection tests. The resolver runs against a fake schema store; the
// record store fake emulates the (year, category_code) upsert contract.
package stats

import (
	"time"

	"github.com/google/uuid"

	"statbank/internal/models"
	"statbank/internal/schema"
)

type fakeSchemaStore struct {
	categories map[string]*models.Category
	fields     map[string][]models.Field
}

func (f *fakeSchemaStore) FindByCode(code string) (*models.Category, error) {
	return f.categories[code], nil
}

func (f *fakeSchemaStore) ListByCategory(categoryCode string) ([]models.Field, error) {
	return f.fields[categoryCode], nil
}

// testResolver returns a resolver over a fixed blood_type category, a
// numbered-series zones category, and an inactive retired category.
func testResolver() *schema.Resolver {
	fs := &fakeSchemaStore{
		categories: map[string]*models.Category{
			"blood_type": {
				Code: "blood_type", Name: "Blood Type",
				Kind: models.KindFixed, Active: true,
			},
			"zones": {
				Code: "zones", Name: "Recipients by Zone",
				Kind: models.KindNumberedSeries, Active: true, SeriesLabel: "zone",
			},
			"retired": {
				Code: "retired", Name: "Retired",
				Kind: models.KindFixed, Active: false,
			},
		},
		fields: map[string][]models.Field{
			"blood_type": {
				{CategoryCode: "blood_type", FieldCode: "a_pos", FieldName: "A+", SortOrder: 0},
				{CategoryCode: "blood_type", FieldCode: "a_neg", FieldName: "A-", SortOrder: 1},
				{CategoryCode: "blood_type", FieldCode: "o_pos", FieldName: "O+", SortOrder: 2},
			},
		},
	}
	return schema.NewResolver(fs, fs, nil)
}

// fakeRecords implements RecordWriter and RecordLister in memory.
type fakeRecords struct {
	rows []models.StatRecord
}

func (f *fakeRecords) find(year int, code string) *models.StatRecord {
	for i := range f.rows {
		if f.rows[i].Year == year && f.rows[i].CategoryCode == code {
			return &f.rows[i]
		}
	}
	return nil
}

func (f *fakeRecords) Upsert(r *models.StatRecord) (*models.StatRecord, error) {
	if existing := f.find(r.Year, r.CategoryCode); existing != nil {
		existing.Source = r.Source
		existing.Document = r.Document
		existing.Published = r.Published
		existing.UpdatedAt = existing.UpdatedAt.Add(time.Second)
		cp := *existing
		return &cp, nil
	}

	now := time.Now()
	stored := *r
	stored.ID = uuid.New()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	f.rows = append(f.rows, stored)
	cp := stored
	return &cp, nil
}

func (f *fakeRecords) UpdateByKey(origYear int, origCategoryCode string, r *models.StatRecord) (*models.StatRecord, error) {
	existing := f.find(origYear, origCategoryCode)
	if existing == nil {
		return nil, nil
	}
	existing.Year = r.Year
	existing.CategoryCode = r.CategoryCode
	existing.Source = r.Source
	existing.Document = r.Document
	existing.Published = r.Published
	existing.UpdatedAt = existing.UpdatedAt.Add(time.Second)
	cp := *existing
	return &cp, nil
}

func (f *fakeRecords) List(publishedOnly bool, year int, categoryCode string) ([]models.StatRecord, error) {
	var out []models.StatRecord
	for _, r := range f.rows {
		if publishedOnly && !r.Published {
			continue
		}
		if year != 0 && r.Year != year {
			continue
		}
		if categoryCode != "" && r.CategoryCode != categoryCode {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}
