package knowledge

// defaultCorpus is the built-in FAQ set used when no corpus file is present,
// mirroring data/faqs.json.
func defaultCorpus() []Entry {
	return []Entry{
		{
			ID:       "faq_001",
			Category: "general",
			Question: "¿Cuáles son los horarios de atención?",
			Answer:   "Nuestras agencias atienden de Lunes a Viernes de 8:00 AM a 5:00 PM y Sábados de 9:00 AM a 1:00 PM. La banca digital está disponible 24/7.",
			Keywords: []string{"horario", "atención", "agencia", "abierto"},
		},
		{
			ID:       "faq_002",
			Category: "cuentas",
			Question: "¿Qué requisitos necesito para abrir una cuenta de ahorros?",
			Answer:   "Necesitas tu cédula de identidad vigente, una planilla de servicios básicos y un depósito inicial mínimo de $20.",
			Keywords: []string{"requisito", "abrir", "cuenta", "ahorros"},
		},
		{
			ID:       "faq_003",
			Category: "cuentas",
			Question: "¿Cuál es la diferencia entre cuenta de ahorros y cuenta corriente?",
			Answer:   "La cuenta de ahorros genera intereses y está pensada para guardar dinero; la cuenta corriente incluye chequera y está orientada al manejo diario de fondos.",
			Keywords: []string{"diferencia", "ahorros", "corriente"},
		},
		{
			ID:       "faq_004",
			Category: "tarjetas",
			Question: "¿Cómo solicito una tarjeta de crédito?",
			Answer:   "Puedes solicitarla en cualquier agencia o por la banca en línea. Requieres ingresos demostrables desde $400 mensuales y historial crediticio limpio.",
			Keywords: []string{"tarjeta", "crédito", "solicitar"},
		},
		{
			ID:       "faq_005",
			Category: "tasas",
			Question: "¿Qué tasa de interés pagan las cuentas de ahorro?",
			Answer:   "La tasa de interés de la cuenta de ahorros es del 2.5% anual, acreditada mensualmente sobre el saldo promedio.",
			Keywords: []string{"tasa", "interés", "rendimiento"},
		},
		{
			ID:       "faq_006",
			Category: "comisiones",
			Question: "¿Qué comisiones cobran por transferencias?",
			Answer:   "Las transferencias entre cuentas del banco son gratuitas. Las transferencias interbancarias tienen un costo de $0.45 por operación.",
			Keywords: []string{"comisión", "cobran", "transferencia", "costo"},
		},
		{
			ID:       "faq_007",
			Category: "seguros",
			Question: "¿Qué tipos de pólizas de seguro ofrecen?",
			Answer:   "Ofrecemos seguros de vida, de auto, de hogar y de desgravamen. Puedes contratarlos en agencias o consultar tus pólizas activas desde este asistente.",
			Keywords: []string{"póliza", "seguro", "ofrecen", "tipos de"},
		},
		{
			ID:       "faq_008",
			Category: "digital",
			Question: "¿Cómo recupero mi clave de banca en línea?",
			Answer:   "Desde la pantalla de inicio de sesión elige 'Olvidé mi clave', verifica tu identidad con tu cédula y el código enviado a tu celular registrado.",
			Keywords: []string{"clave", "recuperar", "banca en línea", "contraseña"},
		},
	}
}
