package unstructured

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/poiesic/ragengine/ai"
	"github.com/poiesic/ragengine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructure(t *testing.T) {
	var gotForm map[string]string
	var gotFile, gotName string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, partitionPath, r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotForm = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			gotForm[k] = v[0]
		}
		file, header, err := r.FormFile(filesField)
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)
		gotFile, gotName = string(data), header.Filename

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[
			{"type":"Title","text":"Hello","metadata":{"page_number":1,"filename":"hello.txt"}},
			{"type":"NarrativeText","text":"world","metadata":{"filename":"hello.txt"}},
			{"type":"NarrativeText","text":"odd","metadata":{"page_number":"two"}}
		]`)
	}))
	defer srv.Close()

	s, err := NewStructurer(ai.NewConfig(ai.WithStructuringEndpoint(srv.URL + "/")))
	require.NoError(t, err)

	segments, err := s.Structure(context.Background(), ai.StructureRequest{
		Content:  []byte("Hello world"),
		FileName: "hello.txt",
		Chunking: core.ChunkingConfig{CombineUnderNChars: 500, NewAfterNChars: 1500, MultipageSections: true},
	})
	require.NoError(t, err)
	require.Len(t, segments, 3)

	assert.Equal(t, "Hello", segments[0].Text)
	assert.Equal(t, int32(1), segments[0].Page())
	assert.Equal(t, "world", segments[1].Text)
	assert.Nil(t, segments[1].PageNumber)
	assert.Equal(t, int32(0), segments[1].Page())
	assert.Nil(t, segments[2].PageNumber)

	assert.Equal(t, "Hello world", gotFile)
	assert.Equal(t, "hello.txt", gotName)
	assert.Equal(t, map[string]string{
		"chunking_strategy":     "by_title",
		"combine_under_n_chars": "500",
		"new_after_n_chars":     "1500",
		"multipage_sections":    "true",
	}, gotForm)
}

func TestStructureErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"service error with detail", http.StatusUnprocessableEntity, `{"detail":"File type not supported"}`, "File type not supported"},
		{"gateway timeout", http.StatusGatewayTimeout, `{"detail":"timeout"}`, "timeout"},
		{"service error without detail", http.StatusInternalServerError, `boom`, "boom"},
		{"invalid json", http.StatusOK, `not json`, "response is not valid JSON"},
		{"object instead of array", http.StatusOK, `{"text":"x"}`, "expected a JSON array of elements, got JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			s, err := NewStructurer(ai.NewConfig(ai.WithStructuringEndpoint(srv.URL)))
			require.NoError(t, err)

			_, err = s.Structure(context.Background(), ai.StructureRequest{Content: []byte("x"), FileName: "x.bin"})
			require.Error(t, err)
			assert.ErrorIs(t, err, ai.ErrStructuringFailed)
			assert.Equal(t, tt.wantMsg, err.Error())

			var serr *ai.StructuringError
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, tt.status, serr.Status)
		})
	}
}

func TestStructureTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	s, err := NewStructurer(ai.NewConfig(
		ai.WithStructuringEndpoint(srv.URL),
		ai.WithStructuringTimeout(50*time.Millisecond),
	))
	require.NoError(t, err)

	_, err = s.Structure(context.Background(), ai.StructureRequest{Content: []byte("x"), FileName: "x.pdf"})
	assert.ErrorIs(t, err, ai.ErrStructuringFailed)

	var serr *ai.StructuringError
	require.ErrorAs(t, err, &serr)
	assert.Zero(t, serr.Status)
	assert.Equal(t, "no response", serr.StatusText())
}

func TestStructureEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	s, err := NewStructurer(ai.NewConfig(ai.WithStructuringEndpoint(srv.URL)))
	require.NoError(t, err)

	segments, err := s.Structure(context.Background(), ai.StructureRequest{Content: []byte("x"), FileName: "blank.pdf"})
	require.NoError(t, err)
	assert.Empty(t, segments)
}
