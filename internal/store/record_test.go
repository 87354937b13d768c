// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"testing"
	"time"

	"statbank/internal/models"
)

func recordFixture(t *testing.T) (*RecordStore, string) {
	t.Helper()
	db := testDB(t)
	categories := NewCategoryStore(db)

	code := testCode("rec")
	t.Cleanup(func() { cleanCategory(t, db, code) })

	if _, err := categories.Create(&models.Category{
		Code: code, Name: "Record Fixture", Kind: models.KindNumberedSeries, Active: true,
	}); err != nil {
		t.Fatalf("Create category: %v", err)
	}
	return NewRecordStore(db), code
}

func TestRecordStoreUpsertConverges(t *testing.T) {
	s, code := recordFixture(t)

	first, err := s.Upsert(&models.StatRecord{
		Year: 2024, CategoryCode: code,
		Source:   "census",
		Document: models.Document{"series_1": 10},
	})
	if err != nil {
		t.Fatalf("first Upsert: %v", err)
	}

	// Re-submission replaces the payload in place instead of adding a row.
	time.Sleep(10 * time.Millisecond)
	second, err := s.Upsert(&models.StatRecord{
		Year: 2024, CategoryCode: code,
		Source:    "revised census",
		Document:  models.Document{"series_1": 12, "series_2": 3},
		Published: true,
	})
	if err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	if second.ID != first.ID {
		t.Error("upsert must keep the original row")
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("created_at must survive re-ingestion: %v vs %v", second.CreatedAt, first.CreatedAt)
	}
	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Error("updated_at must advance on re-ingestion")
	}
	if second.Document["series_2"] != 3 {
		t.Errorf("document not replaced: %v", second.Document)
	}

	all, err := s.List(false, 2024, code)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected 1 row after double upsert, got %d", len(all))
	}
}

func TestRecordStoreListOrderAndFilters(t *testing.T) {
	s, code := recordFixture(t)

	for _, r := range []models.StatRecord{
		{Year: 2022, CategoryCode: code, Document: models.Document{"series_1": 1}, Published: true},
		{Year: 2024, CategoryCode: code, Document: models.Document{"series_1": 2}, Published: true},
		{Year: 2023, CategoryCode: code, Document: models.Document{"series_1": 3}, Published: false},
	} {
		if _, err := s.Upsert(&r); err != nil {
			t.Fatalf("Upsert %d: %v", r.Year, err)
		}
	}

	// Newest year first.
	all, err := s.List(false, 0, code)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d rows, want 3", len(all))
	}
	wantYears := []int{2024, 2023, 2022}
	for i, w := range wantYears {
		if all[i].Year != w {
			t.Errorf("row[%d]: year %d, want %d", i, all[i].Year, w)
		}
	}

	published, err := s.List(true, 0, code)
	if err != nil {
		t.Fatalf("List published: %v", err)
	}
	if len(published) != 2 {
		t.Errorf("published filter: got %d rows, want 2", len(published))
	}

	byYear, err := s.List(false, 2023, code)
	if err != nil {
		t.Fatalf("List year: %v", err)
	}
	if len(byYear) != 1 || byYear[0].Year != 2023 {
		t.Errorf("year filter: got %v", byYear)
	}
}

func TestRecordStoreUpdateByKeyMoves(t *testing.T) {
	s, code := recordFixture(t)

	if _, err := s.Upsert(&models.StatRecord{
		Year: 2023, CategoryCode: code, Document: models.Document{"series_1": 7},
	}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	moved, err := s.UpdateByKey(2023, code, &models.StatRecord{
		Year: 2024, CategoryCode: code,
		Document: models.Document{"series_1": 8},
	})
	if err != nil {
		t.Fatalf("UpdateByKey: %v", err)
	}
	if moved == nil {
		t.Fatal("expected moved record")
	}
	if moved.Year != 2024 {
		t.Errorf("year: got %d, want 2024", moved.Year)
	}

	if r, _ := s.FindByKey(2023, code); r != nil {
		t.Error("record still present under the original key")
	}
	r, _ := s.FindByKey(2024, code)
	if r == nil || r.Document["series_1"] != 8 {
		t.Error("record missing under the new key")
	}

	// Missing original key means nothing to edit.
	missing, err := s.UpdateByKey(1999, code, &models.StatRecord{
		Year: 2025, CategoryCode: code, Document: models.Document{"series_1": 1},
	})
	if err != nil {
		t.Fatalf("UpdateByKey missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing original key")
	}
}

func TestRecordStoreDelete(t *testing.T) {
	s, code := recordFixture(t)

	if _, err := s.Upsert(&models.StatRecord{
		Year: 2024, CategoryCode: code, Document: models.Document{"series_1": 1},
	}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	deleted, err := s.Delete(2024, code)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted {
		t.Error("expected delete to report a removed row")
	}

	deleted, err = s.Delete(2024, code)
	if err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if deleted {
		t.Error("second delete must report no removed row")
	}
}
