package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	bazi "bazi_backend/internal/feature/bazi/domain/entity"
	baziusecase "bazi_backend/internal/feature/bazi/usecase"
	"bazi_backend/internal/feature/fortune/domain/entity"
	"bazi_backend/internal/feature/fortune/transport/handler"
	"bazi_backend/internal/feature/fortune/usecase"
)

// mockFortuneUsecase はFortuneUsecaseインターフェースのモック実装です。
type mockFortuneUsecase struct {
	OnboardFunc          func(ctx context.Context, in usecase.OnboardInput) (*entity.Profile, error)
	GetProfileFunc       func(ctx context.Context, id uint) (*entity.Profile, error)
	DrawLuckyNumbersFunc func(ctx context.Context, profileID uint) (*entity.Fortune, error)
}

func (m *mockFortuneUsecase) Onboard(ctx context.Context, in usecase.OnboardInput) (*entity.Profile, error) {
	return m.OnboardFunc(ctx, in)
}

func (m *mockFortuneUsecase) GetProfile(ctx context.Context, id uint) (*entity.Profile, error) {
	return m.GetProfileFunc(ctx, id)
}

func (m *mockFortuneUsecase) DrawLuckyNumbers(ctx context.Context, profileID uint) (*entity.Fortune, error) {
	return m.DrawLuckyNumbersFunc(ctx, profileID)
}

var testProfile = &entity.Profile{
	ID:        1,
	Name:      "張小明",
	Mode:      entity.InputModeSolar,
	BirthDate: "2024-10-15",
	BirthTime: "12:00",
	Pillars:   bazi.FourPillars{Year: "甲辰", Month: "甲戌", Day: "壬子", Hour: "丙午"},
	Precision: bazi.PrecisionExact,
	Analysis:  entity.BaziAnalysis{ElementBalance: "水旺", Summary: "壬水日主", PianCaiStrength: "旺相", PianCaiAnalysis: "丙火偏財"},
	CreatedAt: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
}

const testProfileJSON = `{"id":1,"name":"張小明","mode":"solar","birth_date":"2024-10-15","birth_time":"12:00",
	"pillars":{"year_pillar":"甲辰","month_pillar":"甲戌","day_pillar":"壬子","hour_pillar":"丙午"},
	"precision":"exact",
	"analysis":{"element_balance":"水旺","summary":"壬水日主","pian_cai_strength":"旺相","pian_cai_analysis":"丙火偏財"},
	"created_at":"2026-10-19T12:00:00Z"}`

func newRouter(h *handler.ProfileHandler) *gin.Engine {
	r := gin.New()
	r.POST("/v1/profiles", h.Onboard)
	r.GET("/v1/profiles/:id", h.Get)
	r.POST("/v1/profiles/:id/fortune", h.Fortune)
	return r
}

func TestProfileHandler_Onboard(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		requestBody    string
		mockFunc       func(ctx context.Context, in usecase.OnboardInput) (*entity.Profile, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "success: solar",
			requestBody: `{"name":"張小明","mode":"solar","birth_date":"2024-10-15","birth_time":"12:00"}`,
			mockFunc: func(ctx context.Context, in usecase.OnboardInput) (*entity.Profile, error) {
				assert.Equal(t, entity.InputModeSolar, in.Mode)
				assert.Equal(t, "2024-10-15", in.BirthDate)
				assert.Equal(t, "12:00", in.BirthTime)
				return testProfile, nil
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   testProfileJSON,
		},
		{
			name:        "success: bazi pillars are passed through",
			requestBody: `{"name":"張小明","mode":"bazi","pillars":{"year_pillar":"甲辰","month_pillar":"甲戌","day_pillar":"壬子","hour_pillar":"丙午"},"verify_date":"2024-10-15"}`,
			mockFunc: func(ctx context.Context, in usecase.OnboardInput) (*entity.Profile, error) {
				assert.Equal(t, testProfile.Pillars, in.Pillars)
				assert.Equal(t, "2024-10-15", in.VerifyDate)
				return testProfile, nil
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   testProfileJSON,
		},
		{
			name:           "error: unknown mode",
			requestBody:    `{"name":"張小明","mode":"lunar"}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"氏名と入力モード（solar/bazi）が必要です"}`,
		},
		{
			name:        "error: day pillar mismatch",
			requestBody: `{"name":"張小明","mode":"bazi","pillars":{"year_pillar":"甲辰","month_pillar":"甲戌","day_pillar":"癸丑","hour_pillar":"丙午"},"verify_date":"2024-10-15"}`,
			mockFunc: func(ctx context.Context, in usecase.OnboardInput) (*entity.Profile, error) {
				return nil, &usecase.DayPillarMismatchError{Date: in.VerifyDate, Claimed: in.Pillars.Day, Expected: "壬子"}
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"error":"選択した日付と入力された日柱 [癸丑] が一致しません"}`,
		},
		{
			name:        "error: day pillar mismatch without detail",
			requestBody: `{"name":"張小明","mode":"bazi","pillars":{"year_pillar":"甲辰","month_pillar":"甲戌","day_pillar":"癸丑","hour_pillar":"丙午"},"verify_date":"2024-10-15"}`,
			mockFunc: func(ctx context.Context, in usecase.OnboardInput) (*entity.Profile, error) {
				return nil, fmt.Errorf("%w: 癸丑", usecase.ErrDayPillarMismatch)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"error":"選択した日付と入力された日柱が一致しません"}`,
		},
		{
			name:        "error: invalid pillar",
			requestBody: `{"name":"張小明","mode":"bazi","pillars":{"year_pillar":"甲丑"}}`,
			mockFunc: func(ctx context.Context, in usecase.OnboardInput) (*entity.Profile, error) {
				return nil, usecase.ErrInvalidPillar
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"四柱は六十甲子の干支で入力してください"}`,
		},
		{
			name:        "error: invalid birth date",
			requestBody: `{"name":"張小明","mode":"solar","birth_date":"1800-01-01","birth_time":"12:00"}`,
			mockFunc: func(ctx context.Context, in usecase.OnboardInput) (*entity.Profile, error) {
				return nil, fmt.Errorf("convert birth date: %w", baziusecase.ErrInvalidInput)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"日付または時刻の形式が正しくありません"}`,
		},
		{
			name:        "error: analysis failed",
			requestBody: `{"name":"張小明","mode":"solar","birth_date":"2024-10-15","birth_time":"12:00"}`,
			mockFunc: func(ctx context.Context, in usecase.OnboardInput) (*entity.Profile, error) {
				return nil, fmt.Errorf("%w: timeout", usecase.ErrAnalysisFailed)
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `{"error":"命盤分析サービスの呼び出しに失敗しました"}`,
		},
		{
			name:        "error: repository failure",
			requestBody: `{"name":"張小明","mode":"solar","birth_date":"2024-10-15","birth_time":"12:00"}`,
			mockFunc: func(ctx context.Context, in usecase.OnboardInput) (*entity.Profile, error) {
				return nil, errors.New("db down")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"内部サーバーエラー"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := handler.NewProfileHandler(&mockFortuneUsecase{OnboardFunc: tc.mockFunc})
			r := newRouter(h)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/v1/profiles", strings.NewReader(tc.requestBody))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.expectedStatus, w.Code)
			assert.JSONEq(t, tc.expectedBody, w.Body.String())
		})
	}
}

func TestProfileHandler_Get(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		path           string
		mockFunc       func(ctx context.Context, id uint) (*entity.Profile, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success",
			path: "/v1/profiles/1",
			mockFunc: func(ctx context.Context, id uint) (*entity.Profile, error) {
				assert.Equal(t, uint(1), id)
				return testProfile, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   testProfileJSON,
		},
		{
			name:           "error: invalid id",
			path:           "/v1/profiles/abc",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"プロフィールIDが正しくありません"}`,
		},
		{
			name:           "error: zero id",
			path:           "/v1/profiles/0",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"プロフィールIDが正しくありません"}`,
		},
		{
			name: "error: not found",
			path: "/v1/profiles/42",
			mockFunc: func(ctx context.Context, id uint) (*entity.Profile, error) {
				return nil, usecase.ErrProfileNotFound
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"プロフィールが見つかりません"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := handler.NewProfileHandler(&mockFortuneUsecase{GetProfileFunc: tc.mockFunc})
			r := newRouter(h)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))

			assert.Equal(t, tc.expectedStatus, w.Code)
			assert.JSONEq(t, tc.expectedBody, w.Body.String())
		})
	}
}

func TestProfileHandler_Fortune(t *testing.T) {
	gin.SetMode(gin.TestMode)

	fortune := &entity.Fortune{
		LuckyNumbers: entity.LuckyNumbers{
			Numbers:        []int{3, 8, 15, 22, 29, 36, 41},
			BettingTime:    "午時",
			AuspiciousDate: "2026-10-20 (丁卯日)",
			Explanation:    "丁火合壬水",
		},
		Candidates: []bazi.DrawCandidate{{Date: "2026-10-20", DayOfWeek: "週二", DayPillar: "丁卯"}},
	}

	tests := []struct {
		name           string
		path           string
		mockFunc       func(ctx context.Context, id uint) (*entity.Fortune, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success",
			path: "/v1/profiles/1/fortune",
			mockFunc: func(ctx context.Context, id uint) (*entity.Fortune, error) {
				return fortune, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody: `{"numbers":[3,8,15,22,29,36,41],"betting_time":"午時","auspicious_date":"2026-10-20 (丁卯日)","explanation":"丁火合壬水",
				"candidates":[{"date":"2026-10-20","day_of_week":"週二","day_pillar":"丁卯"}]}`,
		},
		{
			name: "error: not found",
			path: "/v1/profiles/9/fortune",
			mockFunc: func(ctx context.Context, id uint) (*entity.Fortune, error) {
				return nil, usecase.ErrProfileNotFound
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"プロフィールが見つかりません"}`,
		},
		{
			name: "error: malformed numbers",
			path: "/v1/profiles/1/fortune",
			mockFunc: func(ctx context.Context, id uint) (*entity.Fortune, error) {
				return nil, fmt.Errorf("%w: %w", usecase.ErrAnalysisFailed, usecase.ErrMalformedFortune)
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `{"error":"命盤分析サービスの呼び出しに失敗しました"}`,
		},
		{
			name: "error: calendar unavailable",
			path: "/v1/profiles/1/fortune",
			mockFunc: func(ctx context.Context, id uint) (*entity.Fortune, error) {
				return nil, baziusecase.ErrCalendarUnavailable
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"内部サーバーエラー"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := handler.NewProfileHandler(&mockFortuneUsecase{DrawLuckyNumbersFunc: tc.mockFunc})
			r := newRouter(h)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, tc.path, nil))

			assert.Equal(t, tc.expectedStatus, w.Code)
			assert.JSONEq(t, tc.expectedBody, w.Body.String())
		})
	}
}
