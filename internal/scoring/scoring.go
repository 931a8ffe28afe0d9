package scoring

import (
	"context"
	"fmt"
	"math"
	"sort"

	"resume-matcher/internal/ontology"
)

// Embedder turns text chunks into fixed-length vectors, one per chunk.
type Embedder interface {
	EmbedChunks(ctx context.Context, chunks []string) ([][]float32, error)
}

// Weights control how the four signals blend into the total score. They are
// expressed on a 0-100 scale, so the default set sums to 100.
type Weights struct {
	Embedding float64 `mapstructure:"embedding" json:"embedding"`
	Skills    float64 `mapstructure:"skills" json:"skills"`
	Keywords  float64 `mapstructure:"keywords" json:"keywords"`
	Evidence  float64 `mapstructure:"evidence" json:"evidence"`
}

// DefaultWeights favor semantic similarity and skills coverage over the
// auxiliary signals.
func DefaultWeights() Weights {
	return Weights{Embedding: 40, Skills: 30, Keywords: 15, Evidence: 15}
}

// Subscores are the individual signals on a 0-100 scale, rounded to one decimal.
type Subscores struct {
	EmbeddingSimilarity float64 `json:"embedding_similarity"`
	SkillsCoverage      float64 `json:"skills_coverage"`
	KeywordAlignment    float64 `json:"keyword_alignment"`
	Evidence            float64 `json:"evidence"`
}

// MissingSkill is a JD skill absent from the resume.
type MissingSkill struct {
	Term       string  `json:"term"`
	Importance float64 `json:"importance"`
}

// Result is the full outcome of scoring a resume against a job description.
type Result struct {
	TotalScore    float64        `json:"total_score"`
	Subscores     Subscores      `json:"subscores"`
	AlignedSkills []string       `json:"aligned_skills"`
	MissingSkills []MissingSkill `json:"missing_skills"`
}

// Ensemble blends embedding similarity with skills coverage, action-verb
// alignment and quantified-evidence density into a single 0-100 score.
type Ensemble struct {
	embedder Embedder
	ontology *ontology.Ontology
	weights  Weights
}

func NewEnsemble(embedder Embedder, ont *ontology.Ontology, weights Weights) *Ensemble {
	return &Ensemble{embedder: embedder, ontology: ont, weights: weights}
}

// Compute scores resumeText against jdText. Both texts are cleaned first.
// Empty input on either side produces a zero result rather than an error so
// the caller can decide how to surface it.
func (e *Ensemble) Compute(ctx context.Context, resumeText, jdText string) (*Result, error) {
	resumeText = CleanText(resumeText)
	jdText = CleanText(jdText)

	resumeChunks := SplitSentences(resumeText)
	jdChunks := SplitSentences(jdText)

	emb, err := e.embeddingSimilarity(ctx, resumeChunks, jdChunks)
	if err != nil {
		return nil, fmt.Errorf("embedding similarity: %w", err)
	}

	cov, aligned, missing := SkillsCoverage(resumeText, jdText, e.ontology.Vocab())
	kw := KeywordAlignment(resumeText, jdText, nil)
	evid := EvidenceScore(resumeChunks)

	total := e.weights.Embedding*emb + e.weights.Skills*cov + e.weights.Keywords*kw + e.weights.Evidence*evid
	total = round1(math.Max(0, math.Min(100, total)))

	return &Result{
		TotalScore: total,
		Subscores: Subscores{
			EmbeddingSimilarity: round1(100 * emb),
			SkillsCoverage:      round1(100 * cov),
			KeywordAlignment:    round1(100 * kw),
			Evidence:            round1(100 * evid),
		},
		AlignedSkills: aligned,
		MissingSkills: missing,
	}, nil
}

func (e *Ensemble) embeddingSimilarity(ctx context.Context, resumeChunks, jdChunks []string) (float64, error) {
	if len(resumeChunks) == 0 || len(jdChunks) == 0 {
		return 0, nil
	}

	resumeVecs, err := e.embedder.EmbedChunks(ctx, resumeChunks)
	if err != nil {
		return 0, fmt.Errorf("embedding resume chunks: %w", err)
	}

	jdVecs, err := e.embedder.EmbedChunks(ctx, jdChunks)
	if err != nil {
		return 0, fmt.Errorf("embedding jd chunks: %w", err)
	}

	return EmbeddingSimilarity(resumeVecs, jdVecs)
}

// SkillsCoverage measures which part of the JD's required skills show up in
// the resume. It returns the coverage ratio, the aligned skills and the
// missing ones. A JD with no recognizable skills scores 0, but the resume's
// recognized skills are still reported as aligned.
func SkillsCoverage(resumeText, jdText string, vocab []string) (float64, []string, []MissingSkill) {
	jdSkills := toSet(ExtractTerms(jdText, vocab))
	resumeSkills := toSet(ExtractTerms(resumeText, vocab))

	if len(jdSkills) == 0 {
		var aligned []string
		for skill := range resumeSkills {
			aligned = append(aligned, skill)
		}
		sort.Strings(aligned)
		return 0, aligned, nil
	}

	var aligned []string
	var missing []MissingSkill
	for skill := range jdSkills {
		if resumeSkills[skill] {
			aligned = append(aligned, skill)
		} else {
			missing = append(missing, MissingSkill{Term: skill, Importance: 1.0})
		}
	}

	sort.Strings(aligned)
	sort.Slice(missing, func(i, j int) bool { return missing[i].Term < missing[j].Term })

	coverage := float64(len(aligned)) / float64(len(jdSkills))
	return coverage, aligned, missing
}

// KeywordAlignment measures overlap of action verbs between the two texts,
// relative to the verbs the JD asks for. A JD with no action verbs scores 0.
func KeywordAlignment(resumeText, jdText string, verbs []string) float64 {
	if verbs == nil {
		verbs = DefaultVerbs
	}

	resumeVerbs := toSet(ExtractTerms(resumeText, verbs))
	jdVerbs := toSet(ExtractTerms(jdText, verbs))

	if len(jdVerbs) == 0 {
		return 0
	}

	shared := 0
	for verb := range jdVerbs {
		if resumeVerbs[verb] {
			shared++
		}
	}

	return float64(shared) / float64(len(jdVerbs))
}

func toSet(terms []string) map[string]bool {
	set := make(map[string]bool, len(terms))
	for _, t := range terms {
		set[t] = true
	}
	return set
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
