package universe

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stockit/analyzer/internal/domain"
)

func TestCheckName(t *testing.T) {
	tests := []struct {
		name       string
		stockName  string
		analyzable bool
		reason     string
	}{
		{
			name:       "ordinary stock",
			stockName:  "삼성전자",
			analyzable: true,
		},
		{
			name:       "leading 우 is part of the company name",
			stockName:  "우리금융지주",
			analyzable: true,
		},
		{
			name:       "numbered preferred share with letter",
			stockName:  "현대차2우B",
			analyzable: false,
			reason:     ReasonPreferredShare,
		},
		{
			name:       "numbered preferred share",
			stockName:  "미래에셋증권2우",
			analyzable: false,
			reason:     ReasonPreferredShare,
		},
		{
			name:       "trailing 우",
			stockName:  "SK텔레콤우",
			analyzable: false,
			reason:     ReasonPreferredShare,
		},
		{
			name:       "parenthesized preferred marker",
			stockName:  "한화솔루션(우)",
			analyzable: false,
			reason:     ReasonPreferredShare,
		},
		{
			name:       "korean spac",
			stockName:  "하나금융25호스팩",
			analyzable: false,
			reason:     ReasonSPAC,
		},
		{
			name:       "latin SPAC, case-insensitive, marker past the first token",
			stockName:  "Global Spac Partners",
			analyzable: false,
			reason:     ReasonSPAC,
		},
		{
			name:       "mixed-script spac",
			stockName:  "미래에셋SPAC5호",
			analyzable: false,
			reason:     ReasonSPAC,
		},
		{
			name:       "inverse ETP",
			stockName:  "KODEX인버스",
			analyzable: false,
			reason:     ReasonInverseLeveraged,
		},
		{
			name:       "inverse marker past the first token",
			stockName:  "KODEX 인버스",
			analyzable: false,
			reason:     ReasonInverseLeveraged,
		},
		{
			name:       "inverse marker mid-name",
			stockName:  "삼성 인버스 2X",
			analyzable: false,
			reason:     ReasonInverseLeveraged,
		},
		{
			name:       "leveraged ETP",
			stockName:  "TIGER레버리지",
			analyzable: false,
			reason:     ReasonInverseLeveraged,
		},
		{
			name:       "empty name",
			stockName:  "",
			analyzable: false,
			reason:     ReasonUnknownName,
		},
		{
			name:       "collector placeholder",
			stockName:  "알 수 없는 종목",
			analyzable: false,
			reason:     ReasonUnknownName,
		},
		{
			name:       "market suffix after space is ignored",
			stockName:  "삼성전자 KOSPI",
			analyzable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckName(tt.stockName)
			assert.Equal(t, tt.analyzable, got.Analyzable)
			assert.Equal(t, tt.reason, got.Reason)
		})
	}
}

func TestServiceLookupAndAnalyzability(t *testing.T) {
	svc := NewStaticService([]Stock{
		{Code: "005930", Name: "삼성전자"},
		{Code: "005935", Name: "삼성전자우"},
	}, testLogger())

	t.Run("lookup trims whitespace", func(t *testing.T) {
		st, ok := svc.Lookup(" 005930 ")
		assert.True(t, ok)
		assert.Equal(t, "삼성전자", st.Name)
	})

	t.Run("missing code is not in universe", func(t *testing.T) {
		got := svc.CheckAnalyzable("999999")
		assert.False(t, got.Analyzable)
		assert.Equal(t, ReasonNotInUniverse, got.Reason)
	})

	t.Run("preferred share fails the name filter", func(t *testing.T) {
		got := svc.CheckAnalyzable("005935")
		assert.False(t, got.Analyzable)
		assert.Equal(t, ReasonPreferredShare, got.Reason)
	})
}

func TestMarketCapStats(t *testing.T) {
	t.Run("mean and sample std over the snapshot", func(t *testing.T) {
		svc := NewStaticService([]Stock{
			{Code: "005930", Name: "삼성전자", Features: domain.RawFeatures{MarketCap: 30}},
			{Code: "000660", Name: "SK하이닉스", Features: domain.RawFeatures{MarketCap: 10}},
		}, testLogger())

		got := svc.MarketCapStats()
		assert.InDelta(t, 20.0, got.Mean, 1e-9)
		assert.InDelta(t, math.Sqrt(200), got.StdDev, 1e-9)
	})

	t.Run("empty snapshot yields zeros", func(t *testing.T) {
		svc := NewStaticService(nil, testLogger())
		got := svc.MarketCapStats()
		assert.Equal(t, 0.0, got.Mean)
		assert.Equal(t, 0.0, got.StdDev)
	})
}
