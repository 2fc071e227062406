package protocol

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	SlideWelcome           = "welcome"
	SlideIntroBlock        = "intro_block"
	SlideCalibration       = "Instructions_Casillas"
	SlideCalibrationAgain  = "Interlude_Casillas"
	SlidePracticeAgain     = "Interlude_Practice"
	SlideEffortExit        = "Exit_Casillas"
	SlidePreInstructions   = "Pre_Instructions"
	SlideLoading           = "Cargando"
	SlideDecision1         = "Instructions_Decision_1"
	SlideDecision2         = "Instructions_Decision_2"
	SlideDecision3         = "Instructions_Decision_3"
	SlideDecisionFinal     = "Instructions_Decision_final"
	SlideEffortEnding      = "Effort_ending"
	SlidePracticeEnding    = "Practice_ending"
	SlideTestingDecision   = "TestingDecision"
	SlideBreak             = "Break"
	SlideWait              = "wait"
	SlideFarewell          = "farewell"
	CalibrationImage       = "testing_schema.jpg"
	DecisionExampleImage   = "TI_schema.jpg"
	CalibrationTitle       = "Comienza!"
	creditsForPrefix       = "Créditos para"
	selfPronounOnInstructs = "TÚ"
)

// Slide returns the instruction lines of a named slide. Names starting
// with "intro_block" share one text.
func Slide(name string, p Params) ([]string, error) {
	if strings.HasPrefix(name, SlideIntroBlock) {
		name = SlideIntroBlock
	}

	switch name {
	case SlideWelcome:
		return []string{
			"¡Bienvenido/a, a este experimento!",
			" ",
			"Se te indicará paso a paso qué hacer.",
		}, nil
	case SlideIntroBlock:
		return []string{
			"Ahora comenzará un bloque del experimento",
			" ",
			"Puedes descansar unos segundos,",
			"cuando te sientas listo presiona Espacio para continuar.",
		}, nil
	case SlideCalibration:
		if p.EffortMode == EffortBoxes {
			return []string{
				"Tarea de hacer click en casillas:",
				" ",
				"Abajo puedes encontrar un esquema de la tarea",
				fmt.Sprintf("Tu meta es hacer click en el mayor número de casillas en %s segundos.", secs(p.WorkTime)),
			}, nil
		}
		return []string{
			"Tarea de presionar la barra espaciadora:",
			" ",
			"Abajo puedes encontrar un esquema de la tarea",
			fmt.Sprintf("Tu meta es presionar la barra espaciadora el mayor número de veces en %s segundos.", secs(p.WorkTime)),
		}, nil
	case SlideCalibrationAgain:
		return []string{"¡Muy bien! AHORA INTENTA SUPERAR TU RENDIMIENTO"}, nil
	case SlidePracticeAgain:
		return []string{
			"¡Muy bien!",
			" ",
			"Ahora vamos a practicar los niveles de esfuerzo nuevamente",
		}, nil
	case SlideEffortExit:
		return []string{
			"Gracias por completar la tarea.",
			" ",
			"Presiona Espacio para continuar con la próxima tarea.",
		}, nil
	case SlidePreInstructions:
		return []string{
			"Se te ha asignado el rol de Jugador 1,",
			"mientras que a otro participante se le ha asignado el rol de Jugador 2.",
			"Esto significa que tomarás decisiones que afectarán al Jugador 2,",
			"pero él no podrá tomar decisiones que te afecten a ti.",
		}, nil
	case SlideLoading:
		return []string{
			"Ahora haz click para conectarte con otro jugador",
			"",
		}, nil
	case SlideDecision1:
		return []string{
			"Tarea de decisiones:",
			" ",
			"En esta tarea, tú tendrás que " + effortVerb(p) + " para ganar créditos.",
			"Estos créditos pueden ser otorgados a TI, o a OTRO participante de esta investigación",
			" ",
			"En cada ronda de esta tarea, tendrás que elegir entre dos opciones:",
			fmt.Sprintf("\"Descansar\": No tendrás que hacer nada y podrás descansar a cambio de %s.", creditWord(p.RestCredits)),
			"\"Trabajar\": Tendrás que " + effortVerb(p) + " para ganar una mayor cantidad de créditos",
			" ",
			"En algunas rondas (para TI), decidirás si quieres ganar créditos para ti mismo.",
			"En otras rondas (para OTRO), decidirás si quieres ganar créditos para otro jugador anónimo.",
			"Los créditos que ganes serán convertidos en dinero.",
			"En rondas TI, tú recibirás este dinero. En las rondas OTRO, el dinero será recibido por otro jugador.",
			" ",
			"Tus decisiones serán completamente anónimas y confidenciales.",
		}, nil
	case SlideDecision2:
		return []string{
			"A continuación puedes ver 1 caso de ejemplo,",
			"este caso se aplicará para que " + recipientList(p) + " gane dinero",
		}, nil
	case SlideDecision3:
		return []string{
			fmt.Sprintf("Cada ronda mostrará %s por Descansar, y %s créditos", creditWord(p.RestCredits), joinLevels(p.CreditLevels)),
			"por completar exitosamente la tarea al " + effortVerb(p) + ".",
			" ",
			fmt.Sprintf("Tienes un máximo de %s segundos para responder.", secs(p.DecisionTime)),
			fmt.Sprintf("Si tardas más de %s segundos, se darán 0 créditos a ti o a la otra persona.", secs(p.DecisionTime)),
			" ",
			"Si eliges trabajar para ganar más créditos,",
			fmt.Sprintf("debes %s durante %s segundos.", effortHow(p), secs(p.WorkTime)),
			"De lo contrario, no se otorgarán créditos para esa ronda.",
			" ",
			fmt.Sprintf("Siempre que elijas la opción Descansar, podrás reposar durante %s segundos.", secs(p.RestTime)),
		}, nil
	case SlideDecisionFinal:
		return []string{
			"Recuerda, en cada ronda:",
			" ",
			"• Verás si los créditos serán para TI o para el beneficio de un OTRO desconocido.",
			" ",
			fmt.Sprintf("• Debes escoger entre dos opciones: Una opción te da %s por descansar,", creditWord(p.RestCredits)),
			"la otra te da más créditos pero debes " + effortVerb(p) + ".",
			" ",
			fmt.Sprintf("• Tendrás %s segundos para tomar una decisión, de lo contrario se darán 0 créditos para esa ronda.", secs(p.DecisionTime)),
			" ",
			"Continúa con la página siguiente para una ronda de práctica.",
			"Tu objetivo es " + effortHow(p) + ".",
			"Ya que es sólo práctica, no obtendrás créditos en estas rondas.",
		}, nil
	case SlideEffortEnding:
		return []string{
			"¡Genial! ya has practicado cómo " + effortVerb(p),
			"para así ganar créditos para TI o para el OTRO participante.",
			" ",
			"Ahora tendrás unas rondas de práctica similares a la tarea que tendrás posteriormente.",
			fmt.Sprintf("Como fue dicho anteriormente, aquí podrás elegir entre Descansar y ganar %s,", creditWord(p.RestCredits)),
			"o trabajar para ganar una mayor cantidad de créditos.",
		}, nil
	case SlidePracticeEnding:
		return []string{
			"¡Excelente! Has completado las rondas de práctica.",
			" ",
			"Ahora comenzarás con la tarea principal.",
			" ",
			"Recuerda que en cada ronda tendrás que tomar una decisión entre Descansar y Trabajar.",
			fmt.Sprintf("Si eliges Trabajar, tendrás que %s en %s segundos.", effortVerb(p), secs(p.WorkTime)),
			fmt.Sprintf("Si eliges Descansar, podrás hacerlo durante %s segundos.", secs(p.RestTime)),
		}, nil
	case SlideTestingDecision:
		return []string{
			"Recordar que si no se toma ninguna decisión",
			"No ganarás créditos",
		}, nil
	case SlideBreak:
		return []string{
			"Puedes tomar un descanso.",
			" ",
			"Cuando te sientas listo para continuar presiona Espacio.",
		}, nil
	case SlideWait:
		return []string{"+"}, nil
	case SlideFarewell:
		return []string{
			"El experimento ha terminado.",
			"",
			"¡Muchas gracias por su colaboración!",
		}, nil
	}
	return nil, fmt.Errorf("unknown slide %q", name)
}

// CreditsFor is the title used on every trial screen.
func CreditsFor(p Params, b Beneficiary) string {
	return creditsForPrefix + " " + p.DisplayName(b)
}

// FeedbackLines are the two lines of the feedback screen.
func FeedbackLines(p Params, b Beneficiary, earned int) []string {
	who := "Has ganado"
	if b != Self {
		who = p.DisplayName(b) + " ha ganado"
	}
	return []string{who, fmt.Sprintf("%d créditos", earned)}
}

func secs(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}

func effortVerb(p Params) string {
	if p.EffortMode == EffortBoxes {
		return "hacer click en las casillas"
	}
	return "rellenar la barra"
}

func effortHow(p Params) string {
	if p.EffortMode == EffortBoxes {
		return "hacer click en todas las casillas"
	}
	return "rellenar la barra presionando repetidamente la tecla Espacio"
}

func creditWord(n int) string {
	if n == 1 {
		return "1 crédito"
	}
	return fmt.Sprintf("%d créditos", n)
}

func joinLevels(levels []int) string {
	parts := make([]string, len(levels))
	for i, l := range levels {
		parts[i] = strconv.Itoa(l)
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + " o " + parts[len(parts)-1]
}

func recipientList(p Params) string {
	names := make([]string, 0, len(p.Beneficiaries))
	for _, b := range p.Beneficiaries {
		if b == Self {
			names = append(names, selfPronounOnInstructs)
			continue
		}
		names = append(names, p.DisplayName(b))
	}
	return strings.Join(names, " o ")
}
