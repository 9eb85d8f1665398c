package service

import "lead-agent/model"

// fallbacks are the deterministic replies used when reply generation fails.
var fallbacks = map[model.ConversationState]string{
	model.StateInitial:            "¡Hola! Soy Juan, tu asistente de ventas especializado en maquinaria ligera. ¿Podrías decirme tu nombre?",
	model.StateWaitingName:        "Para brindarte atención personalizada, ¿podrías decirme tu nombre?",
	model.StateWaitingEquipment:   "Para revisar nuestro inventario, ¿qué tipo de maquinaria buscas?",
	model.StateWaitingEquipmentQs: "Para recomendarte el equipo adecuado, ¿podrías contarme más sobre las características que necesitas?",
	model.StateWaitingDistributor: "Para ofrecerte mejores condiciones, ¿el equipo es para uso propio o para reventa?",
	model.StateWaitingQuotation:   "Para generar tu cotización necesito: tu nombre completo, empresa, giro, email y teléfono.",
}

func fallbackReply(state model.ConversationState) string {
	if reply, ok := fallbacks[state]; ok {
		return reply
	}
	return "¿Podrías repetir esa información?"
}
