// api_test.go exercises the record endpoints over in-memory fakes. The
// admin and auth groups are covered by the integration tests, which need
// PostgreSQL and Redis.
package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"statbank/internal/models"
	"statbank/internal/schema"
	"statbank/internal/stats"
)

// fakeSchemaStore serves categories and fields from maps.
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

// fakeRecordStore keeps records in a slice keyed by (year, category).
type fakeRecordStore struct {
	rows []models.StatRecord
}

func (f *fakeRecordStore) Upsert(r *models.StatRecord) (*models.StatRecord, error) {
	for i := range f.rows {
		if f.rows[i].Year == r.Year && f.rows[i].CategoryCode == r.CategoryCode {
			r.ID = f.rows[i].ID
			r.CreatedAt = f.rows[i].CreatedAt
			r.UpdatedAt = time.Now()
			f.rows[i] = *r
			return r, nil
		}
	}
	r.ID = uuid.New()
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	f.rows = append(f.rows, *r)
	return r, nil
}

func (f *fakeRecordStore) UpdateByKey(origYear int, origCategoryCode string, r *models.StatRecord) (*models.StatRecord, error) {
	for i := range f.rows {
		if f.rows[i].Year == origYear && f.rows[i].CategoryCode == origCategoryCode {
			r.ID = f.rows[i].ID
			r.CreatedAt = f.rows[i].CreatedAt
			r.UpdatedAt = time.Now()
			f.rows[i] = *r
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeRecordStore) List(publishedOnly bool, year int, categoryCode string) ([]models.StatRecord, error) {
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

func testAPI(records *fakeRecordStore) *API {
	schemaStore := &fakeSchemaStore{
		categories: map[string]*models.Category{
			"blood_type": {Code: "blood_type", Name: "Blood Type", Kind: models.KindFixed, Active: true},
		},
		fields: map[string][]models.Field{
			"blood_type": {
				{CategoryCode: "blood_type", FieldCode: "a_pos", FieldName: "A+", SortOrder: 0},
				{CategoryCode: "blood_type", FieldCode: "o_pos", FieldName: "O+", SortOrder: 1},
			},
		},
	}
	resolver := schema.NewResolver(schemaStore, schemaStore, nil)
	return NewAPI(stats.NewIngestor(resolver, records), stats.NewProjector(resolver, records))
}

func TestSubmitRecordCreates(t *testing.T) {
	records := &fakeRecordStore{}
	api := testAPI(records)

	body := `{"year":2024,"category_code":"blood_type","published":true,` +
		`"fields":{"blood_type_a_pos":"120","blood_type_o_pos":"0"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/records", strings.NewReader(body))
	rec := httptest.NewRecorder()
	api.SubmitRecord(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	if len(records.rows) != 1 {
		t.Fatalf("expected 1 stored record, got %d", len(records.rows))
	}
	if records.rows[0].Document["a_pos"] != 120 {
		t.Errorf("a_pos: got %d, want 120", records.rows[0].Document["a_pos"])
	}
}

func TestSubmitRecordUnknownCategory(t *testing.T) {
	api := testAPI(&fakeRecordStore{})

	body := `{"year":2024,"category_code":"missing","fields":{"missing_x":"1"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/records", strings.NewReader(body))
	rec := httptest.NewRecorder()
	api.SubmitRecord(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "unknown_category") {
		t.Errorf("body should carry the error kind, got %s", rec.Body.String())
	}
}

func TestSubmitRecordEmptyDocument(t *testing.T) {
	api := testAPI(&fakeRecordStore{})

	body := `{"year":2024,"category_code":"blood_type","fields":{"blood_type_a_pos":""}}`
	req := httptest.NewRequest(http.MethodPost, "/api/records", strings.NewReader(body))
	rec := httptest.NewRecorder()
	api.SubmitRecord(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "validation") {
		t.Errorf("body should carry the error kind, got %s", rec.Body.String())
	}
}

func TestSubmitRecordRejectsBadYear(t *testing.T) {
	api := testAPI(&fakeRecordStore{})

	body := `{"year":99,"category_code":"blood_type","fields":{"blood_type_a_pos":"1"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/records", strings.NewReader(body))
	rec := httptest.NewRecorder()
	api.SubmitRecord(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestListRecordsPublishedOnly(t *testing.T) {
	records := &fakeRecordStore{rows: []models.StatRecord{
		{ID: uuid.New(), Year: 2024, CategoryCode: "blood_type", Document: models.Document{"a_pos": 1}, Published: true},
		{ID: uuid.New(), Year: 2023, CategoryCode: "blood_type", Document: models.Document{"a_pos": 2}, Published: false},
	}}
	api := testAPI(records)

	req := httptest.NewRequest(http.MethodGet, "/api/records", nil)
	rec := httptest.NewRecorder()
	api.ListRecords(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "2024") || strings.Contains(body, "2023") {
		t.Errorf("anonymous listing must only show published records, got %s", body)
	}
}

func TestListRecordsAllRequiresSession(t *testing.T) {
	api := testAPI(&fakeRecordStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/records?all=1", nil)
	rec := httptest.NewRecorder()
	api.ListRecords(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
}

func TestListRecordsYearFilterValidation(t *testing.T) {
	api := testAPI(&fakeRecordStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/records?year=abc", nil)
	rec := httptest.NewRecorder()
	api.ListRecords(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}
