package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lead-agent/catalog"
	"lead-agent/dao"
	"lead-agent/model"
	"lead-agent/service"
)

type stubExtractor struct{}

func (stubExtractor) ExtractField(ctx context.Context, message string, kind model.FieldKind) (string, error) {
	return "", nil
}

func (stubExtractor) ExtractQuotation(ctx context.Context, message string) (model.QuotationData, error) {
	return model.QuotationData{}, nil
}

type stubReplier struct{}

func (stubReplier) GenerateReply(ctx context.Context, history []model.Message, state model.ConversationState, results []model.SearchResult, lead *model.Lead) (string, error) {
	return "¡Hola! ¿Cómo te llamas?", nil
}

type stubSyncer struct{}

func (stubSyncer) CreateOrUpdateContact(ctx context.Context, lead *model.Lead) (string, error) {
	return "hs-1", nil
}

func (stubSyncer) CreateContact(ctx context.Context, lead *model.Lead) (string, error) {
	return "hs-1", nil
}

type stubTranscripts struct{}

func (stubTranscripts) Persist(ctx context.Context, sessionID string, session *model.Session) (string, error) {
	return "/tmp/" + sessionID + ".json", nil
}

func newTestRouter() (*gin.Engine, *service.Engine) {
	gin.SetMode(gin.TestMode)
	engine := service.NewEngine(
		dao.NewMemoryStore(),
		catalog.NewIndex(nil),
		service.NewQuestionPlanner(),
		stubExtractor{},
		stubReplier{},
		stubSyncer{},
		stubTranscripts{},
		zap.NewNop(),
	)

	r := gin.New()
	r.POST("/chat", ChatHandler(engine))
	r.POST("/chat/reset", ResetHandler(engine))
	r.GET("/chat/sessions/:id", SessionHandler(engine))
	return r, engine
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestChatHandler(t *testing.T) {
	r, _ := newTestRouter()

	w := doJSON(r, http.MethodPost, "/chat", `{"session_id": "u1", "message": "hola"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp model.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "u1", resp.SessionID)
	assert.Equal(t, "¡Hola! ¿Cómo te llamas?", resp.Reply)
	assert.Equal(t, model.StateWaitingName, resp.State)
}

func TestChatHandler_MissingFields(t *testing.T) {
	r, _ := newTestRouter()

	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodPost, "/chat", `{"message": "hola"}`).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodPost, "/chat", `{"session_id": "u1"}`).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodPost, "/chat", `no es json`).Code)
}

func TestResetHandler(t *testing.T) {
	r, engine := newTestRouter()

	_, err := engine.Handle(context.Background(), "u1", "hola")
	require.NoError(t, err)

	w := doJSON(r, http.MethodPost, "/chat/reset", `{"session_id": "u1"}`)
	require.Equal(t, http.StatusOK, w.Code)

	sess, err := engine.Session(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, model.StateInitial, sess.State)
	assert.Empty(t, sess.History)
}

func TestSessionHandler(t *testing.T) {
	r, engine := newTestRouter()

	_, err := engine.Handle(context.Background(), "u1", "hola")
	require.NoError(t, err)

	w := doJSON(r, http.MethodGet, "/chat/sessions/u1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var sess model.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sess))
	assert.Equal(t, "u1", sess.ID)
	assert.Len(t, sess.History, 2)
}

func TestSessionHandler_NotFound(t *testing.T) {
	r, _ := newTestRouter()
	w := doJSON(r, http.MethodGet, "/chat/sessions/nadie", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
