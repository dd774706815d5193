package suite

import (
	"fmt"

	"github.com/evdnx/tachart/config"
	"github.com/evdnx/tachart/indicator"
)

// Plot panes the dashboard draws into.
const (
	PanePrice     = "price"
	PaneRSI       = "rsi"
	PaneMACD      = "macd"
	PaneKDJ       = "kdj"
	TypeLine      = "line"
	TypeHistogram = "histogram"
)

// Snapshot holds every indicator series for one bar set, aligned with the
// bars index for index.
type Snapshot struct {
	Timestamps []int64                   `json:"timestamps"`
	MA         indicator.Series          `json:"ma"`
	EMA        indicator.Series          `json:"ema"`
	RSI        indicator.Series          `json:"rsi"`
	MACD       indicator.MACDResult      `json:"macd"`
	Bollinger  indicator.BollingerResult `json:"bollinger"`
	KDJ        indicator.KDJResult       `json:"kdj"`

	bars []indicator.Bar
	cfg  config.ChartConfig
}

// Len returns the number of bars the snapshot covers.
func (s *Snapshot) Len() int { return len(s.Timestamps) }

// PlotData returns one chart line per series, in drawing order.
func (s *Snapshot) PlotData() ([]indicator.PlotData, error) {
	lines := []struct {
		name, typ, pane string
		y               indicator.Series
	}{
		{fmt.Sprintf("MA(%d)", s.cfg.MA.Period), TypeLine, PanePrice, s.MA},
		{fmt.Sprintf("EMA(%d)", s.cfg.EMA.Period), TypeLine, PanePrice, s.EMA},
		{"BOLL Middle", TypeLine, PanePrice, s.Bollinger.Middle},
		{"BOLL Upper", TypeLine, PanePrice, s.Bollinger.Upper},
		{"BOLL Lower", TypeLine, PanePrice, s.Bollinger.Lower},
		{fmt.Sprintf("RSI(%d)", s.cfg.RSI.Period), TypeLine, PaneRSI, s.RSI},
		{"DIF", TypeLine, PaneMACD, s.MACD.DIF},
		{"DEA", TypeLine, PaneMACD, s.MACD.DEA},
		{"MACD", TypeHistogram, PaneMACD, s.MACD.MACD},
		{"K", TypeLine, PaneKDJ, s.KDJ.K},
		{"D", TypeLine, PaneKDJ, s.KDJ.D},
		{"J", TypeLine, PaneKDJ, s.KDJ.J},
	}

	out := make([]indicator.PlotData, 0, len(lines))
	for _, l := range lines {
		pd, err := indicator.NewPlotData(l.name, l.typ, l.pane, s.bars, l.y)
		if err != nil {
			return nil, err
		}
		out = append(out, pd)
	}
	return out, nil
}

// Reading is the last bar's value of every series; undefined values are nil
// so the struct marshals cleanly.
type Reading struct {
	Time            int64          `json:"time"`
	Close           float64        `json:"close"`
	MA              *float64       `json:"ma"`
	EMA             *float64       `json:"ema"`
	RSI             *float64       `json:"rsi"`
	RSIZone         indicator.Zone `json:"rsi_zone,omitempty"`
	DIF             *float64       `json:"dif"`
	DEA             *float64       `json:"dea"`
	MACD            *float64       `json:"macd"`
	BollingerMiddle *float64       `json:"boll_middle"`
	BollingerUpper  *float64       `json:"boll_upper"`
	BollingerLower  *float64       `json:"boll_lower"`
	K               float64        `json:"k"`
	D               float64        `json:"d"`
	J               float64        `json:"j"`
	KDJZone         indicator.Zone `json:"kdj_zone"`
}

// Latest summarises the final bar. ok is false for an empty snapshot.
func (s *Snapshot) Latest() (Reading, bool) {
	n := s.Len()
	if n == 0 {
		return Reading{}, false
	}
	i := n - 1
	r := Reading{
		Time:            s.Timestamps[i],
		Close:           s.bars[i].Close,
		MA:              valueAt(s.MA, i),
		EMA:             valueAt(s.EMA, i),
		RSI:             valueAt(s.RSI, i),
		DIF:             valueAt(s.MACD.DIF, i),
		DEA:             valueAt(s.MACD.DEA, i),
		MACD:            valueAt(s.MACD.MACD, i),
		BollingerMiddle: valueAt(s.Bollinger.Middle, i),
		BollingerUpper:  valueAt(s.Bollinger.Upper, i),
		BollingerLower:  valueAt(s.Bollinger.Lower, i),
		K:               s.KDJ.K[i],
		D:               s.KDJ.D[i],
		J:               s.KDJ.J[i],
		KDJZone:         indicator.KDJZone(s.KDJ.K[i], s.cfg.KDJ),
	}
	if r.RSI != nil {
		r.RSIZone = indicator.RSIZone(*r.RSI, s.cfg.RSI)
	}
	return r, true
}

func valueAt(s indicator.Series, i int) *float64 {
	v, ok := s.Value(i)
	if !ok {
		return nil
	}
	return &v
}
