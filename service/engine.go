// Package service drives the lead qualification dialogue: a finite-state
// conversation per session that collects lead fields through the extraction
// collaborator, queries the catalog mid-dialogue and hands the lead off to
// the CRM gateway.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"lead-agent/catalog"
	"lead-agent/dao"
	"lead-agent/metrics"
	"lead-agent/model"
)

// Extractor turns free text into normalized field values. An empty value
// means "not confidently present" and is never an error.
type Extractor interface {
	ExtractField(ctx context.Context, message string, kind model.FieldKind) (string, error)
	ExtractQuotation(ctx context.Context, message string) (model.QuotationData, error)
}

// ReplyGenerator produces the next assistant message from the dialogue
// context. The engine substitutes a deterministic per-state fallback when it
// fails.
type ReplyGenerator interface {
	GenerateReply(ctx context.Context, history []model.Message, state model.ConversationState, results []model.SearchResult, lead *model.Lead) (string, error)
}

// ContactSyncer upserts lead snapshots into the contact store. Failures are
// logged and never block the dialogue.
type ContactSyncer interface {
	CreateOrUpdateContact(ctx context.Context, lead *model.Lead) (string, error)
	CreateContact(ctx context.Context, lead *model.Lead) (string, error)
}

// TranscriptStore persists completed conversation snapshots.
type TranscriptStore interface {
	Persist(ctx context.Context, sessionID string, session *model.Session) (string, error)
}

type Engine struct {
	store       dao.Store
	catalog     *catalog.Index
	plans       *QuestionPlanner
	extractor   Extractor
	replier     ReplyGenerator
	syncer      ContactSyncer
	transcripts TranscriptStore
	log         *zap.Logger
}

func NewEngine(
	store dao.Store,
	index *catalog.Index,
	plans *QuestionPlanner,
	extractor Extractor,
	replier ReplyGenerator,
	syncer ContactSyncer,
	transcripts TranscriptStore,
	log *zap.Logger,
) *Engine {
	return &Engine{
		store:       store,
		catalog:     index,
		plans:       plans,
		extractor:   extractor,
		replier:     replier,
		syncer:      syncer,
		transcripts: transcripts,
		log:         log,
	}
}

// Handle processes one inbound message for a session and returns the reply.
// The session is looked up or created, the state-specific handler runs, the
// reply is generated for the resulting state and the session is saved.
func (e *Engine) Handle(ctx context.Context, sessionID, message string) (string, error) {
	if sessionID == "" {
		return "", fmt.Errorf("empty session id")
	}

	sess, err := e.store.Get(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("load session %s: %w", sessionID, err)
	}
	if sess == nil {
		sess = model.NewSession(sessionID)
	}
	metrics.TurnsProcessed.WithLabelValues(string(sess.State)).Inc()
	e.log.Info("processing turn",
		zap.String("session", sessionID),
		zap.String("state", string(sess.State)))

	sess.Append(model.RoleUser, message)

	// The initial greeting is generated for the INITIAL state; the move to
	// WAITING_NAME only lands after the reply. Every other state advances
	// before generating, so the reply prompts for the next field.
	prev := sess.State
	next := e.dispatch(ctx, sess, message)
	if prev != model.StateInitial {
		sess.State = next
	}

	var reply string
	if sess.State == model.StateCompleted {
		reply = farewell(&sess.Lead)
		if path, err := e.transcripts.Persist(ctx, sessionID, sess); err != nil {
			e.log.Warn("transcript persistence failed", zap.String("session", sessionID), zap.Error(err))
		} else {
			e.log.Info("transcript persisted", zap.String("session", sessionID), zap.String("path", path))
		}
	} else {
		reply = e.generateReply(ctx, sess)
	}

	sess.Append(model.RoleAssistant, reply)
	if prev == model.StateInitial {
		sess.State = next
	}
	sess.TrimHistory()
	sess.UpdatedAt = time.Now().Format(time.RFC3339)

	if err := e.store.Save(ctx, sess); err != nil {
		// the reply already exists; losing one turn of state is preferable
		// to failing the conversation
		e.log.Error("session save failed", zap.String("session", sessionID), zap.Error(err))
	}
	return reply, nil
}

// Reset discards the session and starts over with a fresh lead and a fresh
// CRM contact.
func (e *Engine) Reset(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("empty session id")
	}
	if err := e.store.Delete(ctx, sessionID); err != nil {
		e.log.Warn("session delete failed on reset", zap.String("session", sessionID), zap.Error(err))
	}

	sess := model.NewSession(sessionID)
	contactID, err := e.syncer.CreateContact(ctx, &sess.Lead)
	if err != nil {
		metrics.SyncFailures.Inc()
		e.log.Warn("contact creation failed on reset", zap.String("session", sessionID), zap.Error(err))
	} else {
		sess.Lead.HubSpotContactID = contactID
	}

	if err := e.store.Save(ctx, sess); err != nil {
		return fmt.Errorf("save reset session %s: %w", sessionID, err)
	}
	e.log.Info("session reset", zap.String("session", sessionID))
	return nil
}

// Session returns the stored session snapshot, nil when unknown.
func (e *Engine) Session(ctx context.Context, sessionID string) (*model.Session, error) {
	return e.store.Get(ctx, sessionID)
}

// syncLead pushes the lead snapshot to the CRM. Fire-and-forget with
// respect to the dialogue: failures are counted and logged only.
func (e *Engine) syncLead(ctx context.Context, lead *model.Lead) {
	lead.UpdatedAt = time.Now().Format(time.RFC3339)
	contactID, err := e.syncer.CreateOrUpdateContact(ctx, lead)
	if err != nil {
		metrics.SyncFailures.Inc()
		e.log.Warn("crm sync failed", zap.String("telegram_id", lead.TelegramID), zap.Error(err))
		return
	}
	if contactID != "" {
		lead.HubSpotContactID = contactID
	}
}

func (e *Engine) generateReply(ctx context.Context, sess *model.Session) string {
	reply, err := e.replier.GenerateReply(ctx, sess.History, sess.State, sess.Results, &sess.Lead)
	if err != nil || strings.TrimSpace(reply) == "" {
		return fallbackReply(sess.State)
	}
	return strings.TrimSpace(reply)
}

func farewell(lead *model.Lead) string {
	return fmt.Sprintf(
		"Perfecto %s, un asesor se pondrá en contacto contigo pronto para dar seguimiento a tu solicitud de %s. ¡Gracias por tu interés!",
		lead.Name, lead.EquipmentInterest)
}
