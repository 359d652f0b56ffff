package router

// MenuOptions must be reproduced verbatim wherever a menu is shown.
const MenuOptions = "1️⃣ Planes y precios disponibles\n" +
	"2️⃣ Lugares con cobertura\n" +
	"3️⃣ Adquirir un servicio\n" +
	"4️⃣ Hablar con una persona"

const (
	MenuText = "¡Hola! soy Conectín y estoy aquí para poder ayudarte 😊 elige una de las opciones:\n\n" + MenuOptions

	PlansText = "Con gusto, nuestros planes son los siguientes:\n\n" +
		"💫 Q150 - 15Mb de velocidad simétricos (si el televisor es smart TV podría optar a recibir 125 canales digitales)\n\n" +
		"💫 Q200 - 50Mb de velocidad simétricos (64 canales analógicos o 180 canales digitales)\n\n" +
		"💫 Q250 - 75Mb de velocidad simétricos (64 canales analógicos o 180 canales digitales)\n\n" +
		"💫 Q300 - 100Mb de velocidad simétricos (64 canales analógicos o 180 canales digitales)\n\n" +
		"💫 Q350 - 125Mb de velocidad simétricos (64 canales analógicos o 180 canales digitales)\n\n" +
		"Si te interesa alguno de nuestros planes no dudes en decírmelo 😊"

	CoverageText = "Gracias por tu interés, contamos con cobertura en:\n\n" +
		"📍 Area de San José Poaquil Chimaltenango\n" +
		"📍 San Juan Comalapa\n" +
		"📍 Tecpan Guatemala\n\n" +
		"¿Deseas saber áreas específicas de cada municipio? Responde con un SI o NO"

	CoverageDetailText = "Claro, acá te dejo el detalle:\n\n" +
		"📍 San José Poaquil:\n" +
		"- Saquitacaj\n" +
		"- Xequechelaj\n" +
		"- Chuacruz Palamá\n" +
		"- Palamá\n" +
		"- Xepalamá\n" +
		"- Paley\n" +
		"- Patoquer\n" +
		"- Caserío Centro\n" +
		"- Hacienda vieja\n\n" +
		"📍 San Juan Comalapa:\n" +
		"- Casco Urbano\n\n" +
		"📍 Tecpan:\n" +
		"- Casco urbano"

	ClosingText = "Claro, si necesitas algo adicional con gusto estaré aquí para ayudarte. Sigamos conectados con Conect@T A&D"

	HandoffText = "Ha sido un gusto atenderte, en breve te atenderá una persona. Sigamos siempre conectados con Conect@T A&D"

	HandoffNoticeText = "Ha sido un gusto atenderte, ahora serás atendido por una persona. Sigamos siempre conectados con Conect@T A&D"

	EscalationPromptText = "Entiendo que tu consulta puede requerir una atención más personalizada. " +
		"Te sugiero usar la opción 4️⃣ para hablar directamente con una persona que podrá ayudarte mejor.\n\n" +
		"Solo escribe '4' y te conectaré con un asesor 😊"

	ImageAckText = "¡Gracias por enviar la imagen! Si es un comprobante, será revisado a la brevedad. De no ser así, cuéntame en qué puedo ayudarte 😊"

	PaymentText = "¡Gracias por tu comprobante de pago! En breve será procesado. Si necesitas confirmación, por favor espera unos minutos 😊"

	ServiceReportText = "Lamentamos que estés teniendo inconvenientes 😥. Ya derivamos tu mensaje a nuestro equipo de soporte técnico, te responderán lo antes posible."

	NewClientText = "¡Gracias por tu interés en Conect@T A&D! Aquí te dejo las opciones para comenzar:\n\n" + MenuOptions

	ReactivationText = "¡Hola! Soy Conectín nuevamente a tu servicio 😊 ¿En qué puedo ayudarte?\n\n" + MenuOptions

	InactivityText = "¡Hola! Veo que ha pasado un tiempo sin actividad. Soy Conectín nuevamente a tu servicio 😊\n\n" +
		"¿En qué puedo ayudarte?\n\n" + MenuOptions

	ApologyText = "Lo siento, hubo un error al procesar tu mensaje."
)
