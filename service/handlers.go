package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"lead-agent/metrics"
	"lead-agent/model"
)

// dispatch runs the handler for the session's current state and returns the
// next state. Handlers mutate the session's lead and results; returning the
// current state holds it (extraction miss, more questions pending).
func (e *Engine) dispatch(ctx context.Context, sess *model.Session, message string) model.ConversationState {
	switch sess.State {
	case model.StateInitial:
		return model.StateWaitingName
	case model.StateWaitingName:
		return e.handleWaitingName(ctx, sess, message)
	case model.StateWaitingEquipment:
		return e.handleWaitingEquipment(ctx, sess, message)
	case model.StateWaitingEquipmentQs:
		return e.handleEquipmentQuestions(ctx, sess, message)
	case model.StateWaitingDistributor:
		return e.handleWaitingDistributor(ctx, sess, message)
	case model.StateWaitingQuotation:
		return e.handleWaitingQuotation(ctx, sess, message)
	default:
		return sess.State
	}
}

func (e *Engine) handleWaitingName(ctx context.Context, sess *model.Session, message string) model.ConversationState {
	name, err := e.extractor.ExtractField(ctx, message, model.FieldName)
	if err != nil || name == "" {
		return sess.State
	}
	sess.Lead.Name = name
	e.log.Info("name accepted", zap.String("session", sess.ID))
	e.syncLead(ctx, &sess.Lead)
	return model.StateWaitingEquipment
}

func (e *Engine) handleWaitingEquipment(ctx context.Context, sess *model.Session, message string) model.ConversationState {
	equipment, err := e.extractor.ExtractField(ctx, message, model.FieldEquipment)
	if err != nil || equipment == "" {
		return sess.State
	}
	sess.Lead.EquipmentInterest = equipment
	sess.Lead.MachineCharacteristics = []string{}
	zero := 0
	sess.Lead.CurrentQuestionIndex = &zero

	sess.Results = e.catalog.Search(equipment)
	metrics.CatalogSearches.Inc()
	e.log.Info("equipment accepted",
		zap.String("session", sess.ID),
		zap.String("equipment", equipment),
		zap.Int("catalog_matches", len(sess.Results)))

	e.syncLead(ctx, &sess.Lead)
	if e.plans.QuestionCount(equipment) == 0 {
		// unclassified category, no follow-up questions to ask
		return model.StateWaitingDistributor
	}
	return model.StateWaitingEquipmentQs
}

func (e *Engine) handleEquipmentQuestions(ctx context.Context, sess *model.Session, message string) model.ConversationState {
	lead := &sess.Lead
	index := 0
	if lead.CurrentQuestionIndex != nil {
		index = *lead.CurrentQuestionIndex
	}

	characteristic := e.plans.DescribeAnswer(lead.EquipmentInterest, message, index)
	lead.MachineCharacteristics = append(lead.MachineCharacteristics, characteristic)
	e.log.Info("characteristic recorded",
		zap.String("session", sess.ID),
		zap.Int("question_index", index))

	if e.plans.HasMoreQuestions(lead.EquipmentInterest, index) {
		index++
		lead.CurrentQuestionIndex = &index
		e.syncLead(ctx, lead)
		return sess.State
	}
	e.syncLead(ctx, lead)
	return model.StateWaitingDistributor
}

func (e *Engine) handleWaitingDistributor(ctx context.Context, sess *model.Session, message string) model.ConversationState {
	raw, err := e.extractor.ExtractField(ctx, message, model.FieldIsDistributor)
	if err != nil || raw == "" {
		return sess.State
	}

	var isDistributor *bool
	switch strings.ToLower(raw) {
	case "true", "verdadero", "si", "sí", "yes":
		isDistributor = boolPtr(true)
	case "false", "falso", "no":
		isDistributor = boolPtr(false)
	default:
		// ambiguous boolean, fall back to the use-type classification
		useType, err := e.extractor.ExtractField(ctx, message, model.FieldUseType)
		if err != nil {
			return sess.State
		}
		switch useType {
		case "venta":
			isDistributor = boolPtr(true)
		case "uso_empresa":
			isDistributor = boolPtr(false)
		}
	}
	if isDistributor == nil {
		return sess.State
	}

	sess.Lead.IsDistributor = isDistributor
	if *isDistributor {
		sess.Lead.UseType = "distribuidor"
	} else {
		sess.Lead.UseType = "cliente_final"
	}
	e.log.Info("client type classified",
		zap.String("session", sess.ID),
		zap.Bool("distributor", *isDistributor))
	e.syncLead(ctx, &sess.Lead)
	return model.StateWaitingQuotation
}

// handleWaitingQuotation merges whatever subset of the quotation batch was
// present and completes the dialogue as soon as extraction returns at all;
// this is the permissive completion policy, not field-presence validation.
func (e *Engine) handleWaitingQuotation(ctx context.Context, sess *model.Session, message string) model.ConversationState {
	data, err := e.extractor.ExtractQuotation(ctx, message)
	if err != nil {
		return sess.State
	}

	lead := &sess.Lead
	if data.Name != "" {
		lead.Name = data.Name
	}
	if data.CompanyName != "" {
		lead.CompanyName = data.CompanyName
	}
	if data.CompanyBusiness != "" {
		lead.CompanyBusiness = data.CompanyBusiness
	}
	if data.Email != "" {
		lead.Email = data.Email
	}
	if data.Phone != "" {
		lead.Phone = data.Phone
	}
	e.log.Info("quotation data merged", zap.String("session", sess.ID))
	e.syncLead(ctx, lead)
	return model.StateCompleted
}

func boolPtr(b bool) *bool { return &b }
