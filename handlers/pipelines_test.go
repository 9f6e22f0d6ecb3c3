// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mtauhidul/ats-ui-demo-sub000/models"
	"github.com/mtauhidul/ats-ui-demo-sub000/realtime"
	"github.com/mtauhidul/ats-ui-demo-sub000/testutil"
)

// expectNotice waits briefly for a notice on sub.
func expectNotice(t *testing.T, sub *realtime.Subscription, reason string) models.ChangeNotice {
	t.Helper()
	select {
	case n := <-sub.C:
		if n.Reason != reason {
			t.Errorf("Expected notice reason %q, got %q", reason, n.Reason)
		}
		return n
	case <-time.After(time.Second):
		t.Fatalf("Expected a %q notice", reason)
	}
	return models.ChangeNotice{}
}

func expectNoNotice(t *testing.T, sub *realtime.Subscription) {
	t.Helper()
	select {
	case n := <-sub.C:
		t.Errorf("Unexpected notice %+v", n)
	default:
	}
}

func TestCreatePipeline(t *testing.T) {
	db := testutil.SetupTestDB(t)
	broker := realtime.NewMemoryBroker()
	defer broker.Close()
	handler := NewPipelineHandler(db, broker)

	testCases := []struct {
		name           string
		body           any
		expectedStatus int
	}{
		{
			name: "valid template",
			body: models.CreatePipelineRequest{
				Name:   "Default",
				Stages: []models.StageInput{{Name: "Screening"}, {Name: "Interview"}},
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "valid job pipeline",
			body: models.CreatePipelineRequest{
				JobID:  "job-1",
				Name:   "Engineering",
				Stages: []models.StageInput{{Name: "Screening", Color: "#888"}},
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "duplicate job pipeline",
			body: models.CreatePipelineRequest{
				JobID:  "job-1",
				Name:   "Again",
				Stages: []models.StageInput{{Name: "Screening"}},
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "missing name",
			body:           models.CreatePipelineRequest{Stages: []models.StageInput{{Name: "A"}}},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "no stages",
			body:           models.CreatePipelineRequest{Name: "Empty"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "blank stage name",
			body:           models.CreatePipelineRequest{Name: "Blank", Stages: []models.StageInput{{Name: " "}}},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/pipelines", tc.body, nil)
			w := httptest.NewRecorder()

			handler.CreatePipeline(w, req)

			testutil.AssertStatus(t, w, tc.expectedStatus)
			if tc.expectedStatus == http.StatusCreated {
				var p models.Pipeline
				testutil.AssertJSON(t, w, &p)
				if p.ID == "" {
					t.Error("Expected pipeline id")
				}
				for i, st := range p.Stages {
					if st.Order != i || st.ID == "" {
						t.Errorf("Stage %d = %+v", i, st)
					}
				}
			}
		})
	}
}

func TestCreatePipelineInvalidJSON(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewPipelineHandler(db, realtime.NewMemoryBroker())

	req := httptest.NewRequest("POST", "/pipelines", nil)
	w := httptest.NewRecorder()
	handler.CreatePipeline(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestGetJobPipeline(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewPipelineHandler(db, realtime.NewMemoryBroker())
	p := testutil.CreateTestPipeline(t, db, "job-1", "Screening", "Interview", "Offer")

	req := testutil.MakeRequest("GET", "/jobs/job-1/pipeline", nil, nil)
	req.SetPathValue("jobID", "job-1")
	w := httptest.NewRecorder()
	handler.GetJobPipeline(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var got models.Pipeline
	testutil.AssertJSON(t, w, &got)
	if got.ID != p.ID || len(got.Stages) != 3 || got.Stages[2].Name != "Offer" {
		t.Errorf("Got %+v", got)
	}

	req = testutil.MakeRequest("GET", "/jobs/none/pipeline", nil, nil)
	req.SetPathValue("jobID", "none")
	w = httptest.NewRecorder()
	handler.GetJobPipeline(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)

	req = testutil.MakeRequest("GET", "/pipelines/"+p.ID, nil, nil)
	req.SetPathValue("id", p.ID)
	w = httptest.NewRecorder()
	handler.GetPipeline(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)
}

func TestCreateJobPipelineFromTemplate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	broker := realtime.NewMemoryBroker()
	defer broker.Close()
	handler := NewPipelineHandler(db, broker)

	template := testutil.CreateTestPipeline(t, db, "", "Applied", "Screening", "Offer")
	jobPipeline := testutil.CreateTestPipeline(t, db, "job-0", "Only")

	sub, err := broker.Subscribe(context.Background(), "job-7")
	if err != nil {
		t.Fatal(err)
	}
	defer sub.Close()

	// Legacy clients send the template as an object with _id.
	body := map[string]any{"template_id": map[string]string{"_id": template.ID}}
	req := testutil.MakeRequest("POST", "/jobs/job-7/pipeline", body, nil)
	req.SetPathValue("jobID", "job-7")
	w := httptest.NewRecorder()
	handler.CreateJobPipeline(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)
	var p models.Pipeline
	testutil.AssertJSON(t, w, &p)
	if p.JobID != "job-7" || len(p.Stages) != 3 || p.Name != template.Name {
		t.Errorf("Got %+v", p)
	}
	expectNotice(t, sub, models.ReasonPipelineChanged)

	t.Run("job pipeline is not a template", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/jobs/job-8/pipeline", map[string]string{"template_id": jobPipeline.ID}, nil)
		req.SetPathValue("jobID", "job-8")
		w := httptest.NewRecorder()
		handler.CreateJobPipeline(w, req)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("unknown template", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/jobs/job-8/pipeline", map[string]string{"template_id": "nope"}, nil)
		req.SetPathValue("jobID", "job-8")
		w := httptest.NewRecorder()
		handler.CreateJobPipeline(w, req)
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})

	t.Run("explicit stages", func(t *testing.T) {
		body := models.CreateJobPipelineRequest{Name: "Custom", Stages: []models.StageInput{{Name: "One"}, {Name: "Two"}}}
		req := testutil.MakeRequest("POST", "/jobs/job-9/pipeline", body, nil)
		req.SetPathValue("jobID", "job-9")
		w := httptest.NewRecorder()
		handler.CreateJobPipeline(w, req)
		testutil.AssertStatus(t, w, http.StatusCreated)
	})

	t.Run("already has pipeline", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/jobs/job-7/pipeline", map[string]string{"template_id": template.ID}, nil)
		req.SetPathValue("jobID", "job-7")
		w := httptest.NewRecorder()
		handler.CreateJobPipeline(w, req)
		testutil.AssertStatus(t, w, http.StatusConflict)
	})
}

func TestUpdateStage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	broker := realtime.NewMemoryBroker()
	defer broker.Close()
	handler := NewPipelineHandler(db, broker)
	p := testutil.CreateTestPipeline(t, db, "job-1", "Screening", "Interview")

	sub, err := broker.Subscribe(context.Background(), "job-1")
	if err != nil {
		t.Fatal(err)
	}
	defer sub.Close()

	send := func(stageID string, body any) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("PATCH", "/pipelines/"+p.ID+"/stages/"+stageID, body, nil)
		req.SetPathValue("id", p.ID)
		req.SetPathValue("stageID", stageID)
		w := httptest.NewRecorder()
		handler.UpdateStage(w, req)
		return w
	}

	w := send(p.Stages[1].ID, map[string]string{"name": "Onsite", "color": "#f0f"})
	testutil.AssertStatus(t, w, http.StatusOK)
	var got models.Pipeline
	testutil.AssertJSON(t, w, &got)
	if got.Stages[1].Name != "Onsite" || got.Stages[1].Color != "#f0f" || got.Stages[0].Name != "Screening" {
		t.Errorf("Got %+v", got.Stages)
	}
	expectNotice(t, sub, models.ReasonPipelineChanged)

	testutil.AssertStatus(t, send(p.Stages[0].ID, map[string]string{}), http.StatusBadRequest)
	testutil.AssertStatus(t, send(p.Stages[0].ID, map[string]string{"name": ""}), http.StatusBadRequest)
	testutil.AssertStatus(t, send("missing", map[string]string{"color": "red"}), http.StatusNotFound)
}

func TestReorderStages(t *testing.T) {
	db := testutil.SetupTestDB(t)
	broker := realtime.NewMemoryBroker()
	defer broker.Close()
	handler := NewPipelineHandler(db, broker)
	p := testutil.CreateTestPipeline(t, db, "job-1", "A", "B", "C")

	send := func(ids []string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("PUT", "/pipelines/"+p.ID+"/stage-order", models.ReorderStagesRequest{StageIDs: ids}, nil)
		req.SetPathValue("id", p.ID)
		w := httptest.NewRecorder()
		handler.ReorderStages(w, req)
		return w
	}

	w := send([]string{p.Stages[2].ID, p.Stages[1].ID, p.Stages[0].ID})
	testutil.AssertStatus(t, w, http.StatusOK)
	var got models.Pipeline
	testutil.AssertJSON(t, w, &got)
	if got.Stages[0].Name != "C" || got.Stages[2].Name != "A" {
		t.Errorf("Got %+v", got.Stages)
	}

	testutil.AssertStatus(t, send([]string{p.Stages[0].ID}), http.StatusBadRequest)
}

func TestListTemplates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewPipelineHandler(db, realtime.NewMemoryBroker())
	testutil.CreateTestPipeline(t, db, "", "A")
	testutil.CreateTestPipeline(t, db, "job-1", "B")

	w := httptest.NewRecorder()
	handler.ListTemplates(w, testutil.MakeRequest("GET", "/pipelines/templates", nil, nil))

	testutil.AssertStatus(t, w, http.StatusOK)
	var templates []models.Pipeline
	testutil.AssertJSON(t, w, &templates)
	if len(templates) != 1 || !templates[0].IsTemplate() {
		t.Errorf("Got %+v", templates)
	}
}
