// Package gemini はGoogle Gemini APIを使用した命盤分析クライアントを提供します。
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	bazi "bazi_backend/internal/feature/bazi/domain/entity"
	"bazi_backend/internal/feature/fortune/domain/entity"
	"bazi_backend/internal/feature/fortune/usecase"
	"bazi_backend/internal/shared/ratelimiter"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"
)

// ErrEmptyResponse はGeminiが本文を返さなかった場合のエラーです。
var ErrEmptyResponse = errors.New("gemini returned an empty response")

// Config はGeminiAnalyzerの生成に必要な設定です。
type Config struct {
	APIKey     string
	Model      string       // 空の場合DefaultModel
	BaseURL    string       // テスト用。空の場合は公式エンドポイント
	HTTPClient *http.Client // nilの場合genaiのデフォルト
}

// GeminiAnalyzer はGoogle Gemini APIを使用して偏財運分析と開運号碼を生成します。
type GeminiAnalyzer struct {
	client  *genai.Client
	model   string
	limiter ratelimiter.Limiter
}

// GeminiAnalyzerがAnalyzerを実装していることをコンパイル時に検証します。
var _ usecase.Analyzer = (*GeminiAnalyzer)(nil)

// NewGeminiAnalyzer はAPIキーを使用してGeminiAnalyzerの新しいインスタンスを生成します。
// limiterがnilの場合は呼び出し頻度を制限しません。
func NewGeminiAnalyzer(ctx context.Context, cfg Config, limiter ratelimiter.Limiter) (*GeminiAnalyzer, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &GeminiAnalyzer{client: client, model: model, limiter: limiter}, nil
}

// analysisResponse はAnalyzePillarsのJSONレスポンスです。
type analysisResponse struct {
	ElementBalance  string `json:"elementBalance"`
	Summary         string `json:"summary"`
	PianCaiStrength string `json:"pianCaiStrength"`
	PianCaiAnalysis string `json:"pianCaiAnalysis"`
}

// luckyNumbersResponse はPickLuckyNumbersのJSONレスポンスです。
type luckyNumbersResponse struct {
	Numbers        []int  `json:"numbers"`
	BettingTime    string `json:"bettingTime"`
	AuspiciousDate string `json:"auspiciousDate"`
	Explanation    string `json:"explanation"`
}

// AnalyzePillars は四柱の偏財運（横財運）分析を生成します。
func (g *GeminiAnalyzer) AnalyzePillars(ctx context.Context, pillars bazi.FourPillars) (*entity.BaziAnalysis, error) {
	var out analysisResponse
	if err := g.generateJSON(ctx, analysisPrompt(pillars), analysisSchema, &out); err != nil {
		return nil, err
	}
	return &entity.BaziAnalysis{
		ElementBalance:  out.ElementBalance,
		Summary:         out.Summary,
		PianCaiStrength: out.PianCaiStrength,
		PianCaiAnalysis: out.PianCaiAnalysis,
	}, nil
}

// PickLuckyNumbers は四柱と攪珠候補日から7個の開運号碼と投注時辰を生成します。
// 号碼の個数・範囲の検証は呼び出し側（usecase）が行います。
func (g *GeminiAnalyzer) PickLuckyNumbers(ctx context.Context, pillars bazi.FourPillars, candidates []bazi.DrawCandidate) (*entity.LuckyNumbers, error) {
	var out luckyNumbersResponse
	if err := g.generateJSON(ctx, luckyNumbersPrompt(pillars, candidates), luckyNumbersSchema, &out); err != nil {
		return nil, err
	}
	return &entity.LuckyNumbers{
		Numbers:        out.Numbers,
		BettingTime:    out.BettingTime,
		AuspiciousDate: out.AuspiciousDate,
		Explanation:    out.Explanation,
	}, nil
}

// generateJSON はJSONスキーマ付きでプロンプトを送信し、結果をdstにデコードします。
func (g *GeminiAnalyzer) generateJSON(ctx context.Context, prompt string, schema *genai.Schema, dst any) error {
	if g.limiter != nil {
		if err := g.limiter.WaitIfNeeded(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		return fmt.Errorf("gemini API request failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return ErrEmptyResponse
	}
	if err := json.Unmarshal([]byte(text), dst); err != nil {
		return fmt.Errorf("decode gemini response: %w", err)
	}
	return nil
}

var analysisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"elementBalance":  {Type: genai.TypeString},
		"summary":         {Type: genai.TypeString},
		"pianCaiStrength": {Type: genai.TypeString},
		"pianCaiAnalysis": {Type: genai.TypeString},
	},
	Required: []string{"elementBalance", "summary", "pianCaiStrength", "pianCaiAnalysis"},
}

var luckyNumbersSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"numbers": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type:    genai.TypeInteger,
				Minimum: genai.Ptr[float64](entity.MinLuckyNumber),
				Maximum: genai.Ptr[float64](entity.MaxLuckyNumber),
			},
			MinItems: genai.Ptr[int64](entity.LuckyNumberCount),
			MaxItems: genai.Ptr[int64](entity.LuckyNumberCount),
		},
		"bettingTime":    {Type: genai.TypeString},
		"auspiciousDate": {Type: genai.TypeString},
		"explanation":    {Type: genai.TypeString},
	},
	Required: []string{"numbers", "bettingTime", "auspiciousDate", "explanation"},
}
