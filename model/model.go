package model

import "time"

// ConversationState identifies the current step of the qualification dialogue.
// A session holds exactly one state at a time; StateCompleted is terminal
// except for an explicit reset.
type ConversationState string

const (
	StateInitial            ConversationState = "initial"
	StateWaitingName        ConversationState = "waiting_name"
	StateWaitingEquipment   ConversationState = "waiting_equipment"
	StateWaitingEquipmentQs ConversationState = "waiting_equipment_questions"
	StateWaitingDistributor ConversationState = "waiting_distributor"
	StateWaitingQuotation   ConversationState = "waiting_quotation_data"
	StateCompleted          ConversationState = "completed"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// History is trimmed to the most recent HistoryTrimTo entries whenever it
// grows past HistoryMax.
const (
	HistoryMax    = 20
	HistoryTrimTo = 10
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// FieldKind names a field the extraction collaborator can pull out of a
// free-text message.
type FieldKind string

const (
	FieldName          FieldKind = "name"
	FieldCompany       FieldKind = "company"
	FieldPhone         FieldKind = "phone"
	FieldEmail         FieldKind = "email"
	FieldLocation      FieldKind = "location"
	FieldEquipment     FieldKind = "equipment"
	FieldIsDistributor FieldKind = "is_distributor"
	FieldUseType       FieldKind = "use_type"
)

// QuotationData is the batch of contact fields extracted in one call when
// the dialogue reaches the quotation step. Empty values mean "not present".
type QuotationData struct {
	UseType         string `json:"use_type"`
	Name            string `json:"name"`
	CompanyName     string `json:"company_name"`
	CompanyBusiness string `json:"company_business"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
}

// Lead is the evolving record of a prospective customer. TelegramID is the
// stable external identity and never changes after creation.
type Lead struct {
	TelegramID             string   `json:"telegram_id"`
	Name                   string   `json:"name,omitempty"`
	EquipmentInterest      string   `json:"equipment_interest,omitempty"`
	CompanyName            string   `json:"company_name,omitempty"`
	CompanyBusiness        string   `json:"company_business,omitempty"`
	Email                  string   `json:"email,omitempty"`
	Phone                  string   `json:"phone,omitempty"`
	Location               string   `json:"location,omitempty"`
	UseType                string   `json:"use_type,omitempty"` // "distribuidor" or "cliente_final"
	IsDistributor          *bool    `json:"is_distributor,omitempty"`
	SpecificModel          string   `json:"specific_model,omitempty"`
	MachineCharacteristics []string `json:"machine_characteristics,omitempty"`
	// CurrentQuestionIndex is nil until an equipment category is known,
	// then starts at 0 and only grows.
	CurrentQuestionIndex *int   `json:"current_question_index,omitempty"`
	HubSpotContactID     string `json:"hubspot_contact_id,omitempty"`
	CreatedAt            string `json:"created_at,omitempty"`
	UpdatedAt            string `json:"updated_at,omitempty"`
}

type CatalogItem struct {
	MachineType string `json:"machine_type"`
	Model       string `json:"model"`
	Location    string `json:"location"`
}

// SearchResult is a catalog item together with its accumulated ranking score.
type SearchResult struct {
	Item  CatalogItem `json:"item"`
	Score int         `json:"score"`
}

// Session is the per-identity conversational context. It is mutated only by
// the dialogue engine, one turn at a time.
type Session struct {
	ID        string             `json:"id"`
	State     ConversationState  `json:"state"`
	Lead      Lead               `json:"lead"`
	History   []Message          `json:"history"`
	Results   []SearchResult     `json:"results,omitempty"`
	CreatedAt string             `json:"created_at"`
	UpdatedAt string             `json:"updated_at"`
}

func NewSession(id string) *Session {
	now := time.Now().Format(time.RFC3339)
	return &Session{
		ID:    id,
		State: StateInitial,
		Lead: Lead{
			TelegramID: id,
			CreatedAt:  now,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Session) Append(role, content string) {
	s.History = append(s.History, Message{Role: role, Content: content})
}

// TrimHistory enforces the history cap after a turn: once the history grows
// past HistoryMax entries only the most recent HistoryTrimTo are retained.
func (s *Session) TrimHistory() {
	if len(s.History) > HistoryMax {
		s.History = append([]Message(nil), s.History[len(s.History)-HistoryTrimTo:]...)
	}
}

type ChatRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Message   string `json:"message" binding:"required"`
}

type ChatResponse struct {
	SessionID string            `json:"session_id"`
	Reply     string            `json:"reply"`
	State     ConversationState `json:"state"`
}

type ResetRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}
