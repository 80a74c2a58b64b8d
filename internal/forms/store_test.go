package forms

import (
	"context"
	"reflect"
	"testing"

	"github.com/vadilazy/HSE-App/internal/kv"
)

func newStores(t *testing.T) (*TemplateStore, *SubmissionStore, *kv.MemoryStore) {
	t.Helper()
	backend := kv.NewMemoryStore()
	templates, err := NewTemplateStore(context.Background(), backend)
	if err != nil {
		t.Fatalf("NewTemplateStore: %v", err)
	}
	submissions, err := NewSubmissionStore(context.Background(), backend)
	if err != nil {
		t.Fatalf("NewSubmissionStore: %v", err)
	}
	return templates, submissions, backend
}

func TestTemplateStoreSeedsOnFirstRun(t *testing.T) {
	templates, _, backend := newStores(t)

	list := templates.List()
	if len(list) != 4 {
		t.Fatalf("template count = %d, want 4 seeds", len(list))
	}
	if list[0].ID != "tpl-inspection" {
		t.Errorf("first template = %s", list[0].ID)
	}

	// Reopening the same backend must not reseed.
	again, err := NewTemplateStore(context.Background(), backend)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(again.List()); got != 4 {
		t.Errorf("template count after reload = %d, want 4", got)
	}
}

func TestTemplateStoreCreatePrepends(t *testing.T) {
	templates, _, _ := newStores(t)

	custom := validTemplate()
	if err := templates.Create(context.Background(), custom); err != nil {
		t.Fatalf("Create: %v", err)
	}

	list := templates.List()
	if list[0].ID != custom.ID {
		t.Errorf("newest template not first: %s", list[0].ID)
	}

	if err := templates.Create(context.Background(), custom); err == nil {
		t.Error("duplicate template id accepted")
	}

	invalid := validTemplate()
	invalid.ID = "tpl-bad"
	invalid.Fields = nil
	if err := templates.Create(context.Background(), invalid); err == nil {
		t.Error("invalid template accepted")
	}
}

func TestSubmissionRoundTrip(t *testing.T) {
	_, submissions, backend := newStores(t)

	sub := FormSubmission{
		ID:     "sub-1",
		FormID: "tpl-incident",
		Data: map[string]any{
			"r1": "2024-05-01",
			"r8": []any{"Faktor Alat", "Faktor Lingkungan"},
		},
		Timestamp: 1700000001000,
	}
	if err := submissions.Create(context.Background(), sub); err != nil {
		t.Fatalf("Create: %v", err)
	}

	reloaded, err := NewSubmissionStore(context.Background(), backend)
	if err != nil {
		t.Fatal(err)
	}
	got, err := reloaded.Get("sub-1")
	if err != nil {
		t.Fatalf("Get after reload: %v", err)
	}
	if !reflect.DeepEqual(got, sub) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, sub)
	}
}

func TestSubmissionDelete(t *testing.T) {
	_, submissions, _ := newStores(t)
	ctx := context.Background()

	submissions.Create(ctx, FormSubmission{ID: "a", FormID: "tpl-incident", Timestamp: 1})
	submissions.Create(ctx, FormSubmission{ID: "b", FormID: "tpl-briefing", Timestamp: 2})

	if err := submissions.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := submissions.Get("a"); !IsNotFound(err) {
		t.Errorf("Get(a) err = %v, want not found", err)
	}
	if _, err := submissions.Get("b"); err != nil {
		t.Errorf("unrelated submission removed: %v", err)
	}
	if err := submissions.Delete(ctx, "a"); !IsNotFound(err) {
		t.Errorf("second Delete err = %v, want not found", err)
	}
}

func TestDeleteByFormCascade(t *testing.T) {
	templates, submissions, _ := newStores(t)
	ctx := context.Background()

	for _, id := range []string{"s1", "s2", "s3"} {
		submissions.Create(ctx, FormSubmission{ID: id, FormID: "tpl-incident", Timestamp: 1})
	}
	submissions.Create(ctx, FormSubmission{ID: "other", FormID: "tpl-briefing", Timestamp: 1})

	if err := templates.Delete(ctx, "tpl-incident"); err != nil {
		t.Fatalf("template Delete: %v", err)
	}
	removed, err := submissions.DeleteByForm(ctx, "tpl-incident")
	if err != nil {
		t.Fatalf("DeleteByForm: %v", err)
	}
	if removed != 3 {
		t.Errorf("removed = %d, want 3", removed)
	}
	if got := len(submissions.List()); got != 1 {
		t.Errorf("remaining submissions = %d, want 1", got)
	}
	if _, err := templates.Get("tpl-incident"); !IsNotFound(err) {
		t.Errorf("template still present: %v", err)
	}
}
