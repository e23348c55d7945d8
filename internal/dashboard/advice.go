package dashboard

import (
	"fmt"
	"strings"

	"github.com/zalint/text-corrector/internal/db"
)

// adviceByErrorType maps the frequent error types to a targeted
// recommendation. Types without an entry simply produce no card.
var adviceByErrorType = map[string]Advice{
	"Orthographe": {
		Title:       "Améliorer l'orthographe",
		Description: "Concentrez-vous sur la mémorisation des mots difficiles. Utilisez des moyens mnémotechniques et relisez vos textes.",
	},
	"Grammaire": {
		Title:       "Réviser la grammaire",
		Description: "Révisez les règles de grammaire de base : accords, conjugaisons, et structure des phrases.",
	},
	"Conjugaison": {
		Title:       "Maîtriser les conjugaisons",
		Description: "Pratiquez régulièrement les temps verbaux les plus utilisés et leurs exceptions.",
	},
	"Ponctuation": {
		Title:       "Améliorer la ponctuation",
		Description: "Apprenez les règles de ponctuation pour structurer vos phrases et améliorer la lisibilité.",
	},
	"Syntaxe": {
		Title:       "Travailler la syntaxe",
		Description: "Variez la structure de vos phrases et veillez à leur cohérence logique.",
	},
}

// Recommendations turns the user's most frequent error types into
// targeted advice. An empty ranking yields a single encouragement card.
func Recommendations(common []db.ErrorTypeCount) []Advice {
	if len(common) == 0 {
		return []Advice{{
			Title:       "Excellent travail !",
			Description: "Continuez à utiliser l'application pour maintenir votre niveau d'écriture.",
		}}
	}

	out := []Advice{}
	for _, e := range common {
		if len(out) == 3 {
			break
		}
		if advice, ok := adviceByErrorType[e.ErrorType]; ok {
			out = append(out, advice)
		}
	}
	return out
}

// Analyze derives strengths, weaknesses and tips from the user's
// activity totals and frequent error types.
func Analyze(common []db.ErrorTypeCount, totalCorrections int, averageErrors float64) Analysis {
	analysis := Analysis{
		Strengths:  []Advice{},
		Weaknesses: []Advice{},
		Tips:       []Advice{},
	}

	if totalCorrections > 10 {
		analysis.Strengths = append(analysis.Strengths, Advice{
			Title:       "Utilisateur régulier",
			Description: fmt.Sprintf("Vous avez corrigé %d textes, montrant votre engagement dans l'amélioration de votre écriture.", totalCorrections),
		})
	}

	switch {
	case averageErrors < 2:
		analysis.Strengths = append(analysis.Strengths, Advice{
			Title:       "Excellente maîtrise",
			Description: "Votre moyenne d'erreurs est très faible, vous maîtrisez bien les bases de l'écriture.",
		})
	case averageErrors < 5:
		analysis.Strengths = append(analysis.Strengths, Advice{
			Title:       "Bonne maîtrise",
			Description: "Vous avez une bonne base avec une moyenne d'erreurs acceptable.",
		})
	}

	if averageErrors > 8 {
		analysis.Weaknesses = append(analysis.Weaknesses, Advice{
			Title:       "Nombreuses erreurs",
			Description: "Votre moyenne d'erreurs est élevée. Concentrez-vous sur les règles de base.",
		})
	}

	for i, e := range common {
		if i == 2 {
			break
		}
		if e.Count > 3 {
			lower := strings.ToLower(e.ErrorType)
			analysis.Weaknesses = append(analysis.Weaknesses, Advice{
				Title:       fmt.Sprintf("Difficultés en %s", lower),
				Description: fmt.Sprintf("Vous faites souvent des erreurs de %s (%d occurrences). Cela mérite une attention particulière.", lower, e.Count),
			})
		}
	}

	if averageErrors > 5 {
		analysis.Tips = append(analysis.Tips, Advice{
			Title:       "Relecture systématique",
			Description: "Prenez l'habitude de relire vos textes plusieurs fois avant de les finaliser.",
		})
	}
	if len(common) > 0 {
		analysis.Tips = append(analysis.Tips, Advice{
			Title:       "Focus sur vos erreurs récurrentes",
			Description: fmt.Sprintf("Concentrez-vous particulièrement sur les erreurs de %s qui reviennent souvent dans vos textes.", strings.ToLower(common[0].ErrorType)),
		})
	}
	analysis.Tips = append(analysis.Tips, Advice{
		Title:       "Pratique régulière",
		Description: "Utilisez l'application régulièrement pour maintenir et améliorer votre niveau d'écriture.",
	})

	return analysis
}
