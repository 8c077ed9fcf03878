package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"vet-assistant-relay/internal/core/errx"
	logx "vet-assistant-relay/pkg/logger"
)

// Prompts holds every fixed text the relay uses: the persona, the reply
// filter, the canned answers and the user-facing fallback strings.
type Prompts struct {
	Persona string       `yaml:"persona"`
	Filter  FilterConfig `yaml:"filter"`
	Canned  CannedConfig `yaml:"canned"`
	Replies ReplyTexts   `yaml:"replies"`
}

type FilterConfig struct {
	Patterns []string `yaml:"patterns"`
	Redirect string   `yaml:"redirect"`
}

type CannedConfig struct {
	FAQ          []CannedEntry `yaml:"faq"`
	FollowUps    []CannedEntry `yaml:"follow_ups"`
	ExamTriggers []string      `yaml:"exam_triggers"`
	ExamReply    string        `yaml:"exam_reply"`
}

type CannedEntry struct {
	Triggers []string `yaml:"triggers"`
	Reply    string   `yaml:"reply"`
}

type ReplyTexts struct {
	NoMessage string `yaml:"no_message"`
	Fallback  string `yaml:"fallback"`
	Error     string `yaml:"error"`
}

// LoadPrompts reads prompts from a YAML file. An empty path or a missing file
// yields the defaults; fields left empty in the file are filled from them.
func LoadPrompts(path string) (*Prompts, error) {
	if path == "" {
		return DefaultPrompts(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logx.Warn().Str("path", path).Msg("prompts file not found, using defaults")
			return DefaultPrompts(), nil
		}
		return nil, fmt.Errorf("read prompts: %w", err)
	}

	var p Prompts
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse prompts %s: %w", path, err)
	}
	p.fillDefaults()

	logx.Info().Str("path", path).Msg("loaded prompts")
	return &p, nil
}

func (p *Prompts) fillDefaults() {
	defaults := DefaultPrompts()

	if p.Persona == "" {
		p.Persona = defaults.Persona
	}
	if len(p.Filter.Patterns) == 0 {
		p.Filter.Patterns = defaults.Filter.Patterns
	}
	if p.Filter.Redirect == "" {
		p.Filter.Redirect = defaults.Filter.Redirect
	}
	if len(p.Canned.FAQ) == 0 {
		p.Canned.FAQ = defaults.Canned.FAQ
	}
	if len(p.Canned.FollowUps) == 0 {
		p.Canned.FollowUps = defaults.Canned.FollowUps
	}
	if len(p.Canned.ExamTriggers) == 0 {
		p.Canned.ExamTriggers = defaults.Canned.ExamTriggers
	}
	if p.Canned.ExamReply == "" {
		p.Canned.ExamReply = defaults.Canned.ExamReply
	}
	if p.Replies.NoMessage == "" {
		p.Replies.NoMessage = defaults.Replies.NoMessage
	}
	if p.Replies.Fallback == "" {
		p.Replies.Fallback = defaults.Replies.Fallback
	}
	if p.Replies.Error == "" {
		p.Replies.Error = defaults.Replies.Error
	}
}

const defaultPersona = `Você é um assistente veterinário altamente qualificado. Responda com precisão técnica e profissional, fornecendo diagnósticos, tratamentos e orientações detalhadas, como um veterinário faria durante uma consulta presencial.
Nunca encerre a conversa mandando o tutor procurar outro profissional: explique o que pode ser feito agora, passo a passo.`

const defaultExamReply = `Para investigar esse quadro, estes são os exames recomendados:

1. Padrão-ouro: hemograma completo com bioquímica sérica (função renal e hepática).
2. Alternativa: urinálise com relação proteína/creatinina urinária.
3. Alternativa: ultrassonografia abdominal.

Se quiser, me conte os sintomas e eu explico como interpretar cada resultado.`

func DefaultPrompts() *Prompts {
	return &Prompts{
		Persona: defaultPersona,
		Filter: FilterConfig{
			Patterns: []string{
				`procure (?:um|o seu|seu|o) (?:médico )?veterin[aá]rio`,
				`consulte (?:um|o seu|seu|o) (?:médico )?veterin[aá]rio`,
				`leve (?:o seu|seu|o|sua|a) (?:pet|animal|cão|cachorro|gato|gata) (?:ao|a um) veterin[aá]rio`,
				`procure (?:ajuda|atendimento|orienta[cç][aã]o) (?:profissional|veterin[aá]ria)`,
				`(?:seek|consult|see) (?:a|your) (?:professional|veterinarian|vet)`,
			},
			Redirect: "veja o que você pode fazer para manejar esta situação:",
		},
		Canned: CannedConfig{
			FAQ: []CannedEntry{
				{
					Triggers: []string{"horário de atendimento", "horario de atendimento", "que horas vocês atendem"},
					Reply:    "Atendo 24 horas por dia, todos os dias. É só mandar a sua dúvida por aqui.",
				},
				{
					Triggers: []string{"quanto custa", "qual o valor", "é pago"},
					Reply:    "O atendimento por este canal é gratuito. Envie a sua dúvida sobre o seu pet.",
				},
				{
					Triggers: []string{"quem é você", "quem e voce", "você é um robô", "voce e um robo"},
					Reply:    "Sou um assistente virtual de orientação veterinária. Posso ajudar com sintomas, cuidados e exames do seu pet.",
				},
			},
			FollowUps: []CannedEntry{
				{
					Triggers: []string{"vômito", "vomito", "vomitando"},
					Reply:    "Há quanto tempo o seu pet está vomitando, e o vômito tem sangue, espuma ou restos de comida?",
				},
				{
					Triggers: []string{"diarreia", "diarréia"},
					Reply:    "A diarreia começou quando? Ele está comendo e bebendo água normalmente?",
				},
				{
					Triggers: []string{"não come", "nao come", "sem apetite"},
					Reply:    "Desde quando ele está sem comer? Qual a idade, espécie e peso aproximado do seu pet?",
				},
			},
			ExamTriggers: []string{
				"quais exames",
				"exames recomendados",
				"que exames",
				"which exams",
				"recommended exams",
			},
			ExamReply: defaultExamReply,
		},
		Replies: ReplyTexts{
			NoMessage: "Nenhuma mensagem recebida.",
			Fallback:  "Desculpe, não consegui responder agora. Tente novamente em alguns minutos.",
			Error:     errx.SystemErrorMessage,
		},
	}
}
