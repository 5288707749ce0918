package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"smartchunk/internal/indexer"
	"smartchunk/internal/service"
	"smartchunk/internal/service/mocks"
)

func TestIndexHandler_Async(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		force      bool
		startErr   error
		wantStatus int
	}{
		{name: "incremental", url: "/api/index", force: false, wantStatus: http.StatusAccepted},
		{name: "force", url: "/api/index?force=true", force: true, wantStatus: http.StatusAccepted},
		{name: "run in progress", url: "/api/index", startErr: service.ErrIndexBusy, wantStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockIndexService := mocks.NewMockIndexService(ctrl)
			mockIndexService.EXPECT().StartReindex(gomock.Any(), tt.force).Return(tt.startErr)

			handler := NewIndexHandler(mockIndexService)
			req := httptest.NewRequest(http.MethodPost, tt.url, nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("ServeHTTP() status = %v, want %v", w.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusAccepted {
				return
			}
			var resp IndexResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != "accepted" {
				t.Errorf("Status = %s, want accepted", resp.Status)
			}
		})
	}
}

func TestIndexHandler_Wait(t *testing.T) {
	tests := []struct {
		name       string
		result     *indexer.IndexResult
		err        error
		wantStatus int
		wantState  string
	}{
		{
			name:       "completed",
			result:     &indexer.IndexResult{Files: 2, Indexed: 2},
			wantStatus: http.StatusOK,
			wantState:  "completed",
		},
		{
			name: "partial failure",
			result: &indexer.IndexResult{Files: 2, Indexed: 1, Failed: 1,
				Failures: []indexer.FileError{{RelPath: "bad.md", Error: "boom"}}},
			err:        fmt.Errorf("%w: 1 of 2 files failed", indexer.ErrIndexIncomplete),
			wantStatus: http.StatusOK,
			wantState:  "completed_with_errors",
		},
		{
			name:       "busy",
			err:        service.ErrIndexBusy,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "failure",
			err:        errors.New("failed to index documents: no such directory"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockIndexService := mocks.NewMockIndexService(ctrl)
			mockIndexService.EXPECT().Reindex(gomock.Any(), false).Return(tt.result, tt.err)

			handler := NewIndexHandler(mockIndexService)
			req := httptest.NewRequest(http.MethodPost, "/api/index?wait=true", nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("ServeHTTP() status = %v, want %v", w.Code, tt.wantStatus)
			}
			if tt.wantState == "" {
				return
			}

			var resp IndexResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != tt.wantState {
				t.Errorf("Status = %s, want %s", resp.Status, tt.wantState)
			}
			if resp.Result == nil || resp.Result.Files != tt.result.Files || resp.Result.Failed != tt.result.Failed {
				t.Errorf("Result = %+v, want %+v", resp.Result, tt.result)
			}
		})
	}
}

func TestIndexHandler_MethodNotAllowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	handler := NewIndexHandler(mocks.NewMockIndexService(ctrl))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/index", nil))

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("ServeHTTP() status = %v, want 405", w.Code)
	}
}

func TestIndexStatsHandler_ServeHTTP(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockIndexService := mocks.NewMockIndexService(ctrl)
		mockIndexService.EXPECT().Stats(gomock.Any()).Return(&indexer.CoverageStats{
			DocsIndexed:    4,
			ChunksStored:   12,
			PointsStored:   12,
			ChunkerVersion: indexer.ChunkerVersion,
			IndexVersion:   "0123456789abcdef",
		}, nil)

		w := httptest.NewRecorder()
		NewIndexStatsHandler(mockIndexService).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/index/stats", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("ServeHTTP() status = %v, want 200", w.Code)
		}
		var stats indexer.CoverageStats
		if err := json.NewDecoder(w.Body).Decode(&stats); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if stats.DocsIndexed != 4 || stats.ChunksStored != 12 || stats.IndexVersion != "0123456789abcdef" {
			t.Errorf("stats = %+v", stats)
		}
	})

	t.Run("error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockIndexService := mocks.NewMockIndexService(ctrl)
		mockIndexService.EXPECT().Stats(gomock.Any()).Return(nil, errors.New("db locked"))

		w := httptest.NewRecorder()
		NewIndexStatsHandler(mockIndexService).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/index/stats", nil))

		if w.Code != http.StatusInternalServerError {
			t.Errorf("ServeHTTP() status = %v, want 500", w.Code)
		}
	})

	t.Run("method not allowed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		w := httptest.NewRecorder()
		NewIndexStatsHandler(mocks.NewMockIndexService(ctrl)).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/index/stats", nil))

		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("ServeHTTP() status = %v, want 405", w.Code)
		}
	})
}
