package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lead-agent/model"
)

func completionServer(t *testing.T, handler func(t *testing.T, req completionRequest) string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req completionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		content := handler(t, req)

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": content}},
			},
		})
	}))
}

func TestExtractField(t *testing.T) {
	srv := completionServer(t, func(t *testing.T, req completionRequest) string {
		require.Len(t, req.Messages, 1)
		assert.Contains(t, req.Messages[0].Content, "me llamo Carlos")
		return `{"value": "Carlos"}`
	})
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "test-model", zap.NewNop())
	got, err := client.ExtractField(context.Background(), "me llamo Carlos", model.FieldName)
	require.NoError(t, err)
	assert.Equal(t, "Carlos", got)
}

func TestExtractField_NullValueIsEmptyNotError(t *testing.T) {
	srv := completionServer(t, func(t *testing.T, req completionRequest) string {
		return `{"value": null}`
	})
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "test-model", zap.NewNop())
	got, err := client.ExtractField(context.Background(), "¿qué equipos manejan?", model.FieldName)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExtractField_UnknownKind(t *testing.T) {
	client := NewClient("http://unused", "test-key", "test-model", zap.NewNop())
	_, err := client.ExtractField(context.Background(), "hola", model.FieldKind("inexistente"))
	assert.Error(t, err)
}

func TestExtractField_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "test-model", zap.NewNop())
	_, err := client.ExtractField(context.Background(), "hola", model.FieldName)
	assert.Error(t, err)
}

func TestExtractQuotation(t *testing.T) {
	srv := completionServer(t, func(t *testing.T, req completionRequest) string {
		return `{"use_type": "uso_empresa", "name": "", "company_name": "ACME", "company_business": null, "email": "ana@acme.mx", "phone": ""}`
	})
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "test-model", zap.NewNop())
	got, err := client.ExtractQuotation(context.Background(), "soy de ACME, ana@acme.mx")
	require.NoError(t, err)
	assert.Equal(t, model.QuotationData{
		UseType:     "uso_empresa",
		CompanyName: "ACME",
		Email:       "ana@acme.mx",
	}, got)
}

func TestGenerateReply_SendsSystemPromptAndHistory(t *testing.T) {
	srv := completionServer(t, func(t *testing.T, req completionRequest) string {
		require.GreaterOrEqual(t, len(req.Messages), 3)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Contains(t, req.Messages[0].Content, "Juan")
		assert.Equal(t, "user", req.Messages[1].Role)
		assert.Equal(t, "assistant", req.Messages[2].Role)
		return "¡Hola Carlos! ¿Qué equipo te interesa?"
	})
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "test-model", zap.NewNop())
	history := []model.Message{
		{Role: model.RoleUser, Content: "hola"},
		{Role: model.RoleAssistant, Content: "¡Hola! ¿Cómo te llamas?"},
	}
	lead := &model.Lead{TelegramID: "u1", Name: "Carlos"}

	reply, err := client.GenerateReply(context.Background(), history, model.StateWaitingEquipment, nil, lead)
	require.NoError(t, err)
	assert.Equal(t, "¡Hola Carlos! ¿Qué equipo te interesa?", reply)
}

func TestGenerateReply_IncludesInventory(t *testing.T) {
	var gotSystem string
	srv := completionServer(t, func(t *testing.T, req completionRequest) string {
		gotSystem = req.Messages[0].Content
		return "tenemos opciones"
	})
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "test-model", zap.NewNop())
	results := []model.SearchResult{
		{Item: model.CatalogItem{MachineType: "Generador", Model: "Generac G25", Location: "Guadalajara"}, Score: 5},
	}
	_, err := client.GenerateReply(context.Background(), nil, model.StateWaitingEquipmentQs, results,
		&model.Lead{TelegramID: "u1", EquipmentInterest: "generador"})
	require.NoError(t, err)
	assert.Contains(t, gotSystem, "Generac G25")
}

func TestComplete_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices": []}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "test-model", zap.NewNop())
	_, err := client.complete(context.Background(), []chatMessage{{Role: "user", Content: "hola"}}, 10, 0)
	assert.Error(t, err)
}
