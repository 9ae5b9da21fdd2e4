package pipeline

import (
	"fmt"
	"time"

	"neowatch/asteroid"
)

// CleaningRule 校验规则，返回nil表示记录合格
type CleaningRule interface {
	Apply(asteroid.Record) error
	Name() string
}

// QualityIssue 质量问题
type QualityIssue struct {
	Rule    string `json:"rule"`
	Row     int    `json:"row"`
	Message string `json:"message"`
}

func (q QualityIssue) String() string {
	return fmt.Sprintf("row %d: %s: %s", q.Row, q.Rule, q.Message)
}

// DataCleaner 数据集校验器
type DataCleaner struct {
	rules []CleaningRule
}

// NewDataCleaner 创建带默认规则的校验器
func NewDataCleaner(rules ...CleaningRule) *DataCleaner {
	if len(rules) == 0 {
		rules = []CleaningRule{
			RecordRule{},
			NewApproachDateRule(),
		}
	}
	return &DataCleaner{rules: rules}
}

// Check 对每条记录应用所有规则，返回全部问题
func (dc *DataCleaner) Check(records []asteroid.Record) []QualityIssue {
	var issues []QualityIssue
	for i, r := range records {
		for _, rule := range dc.rules {
			if err := rule.Apply(r); err != nil {
				issues = append(issues, QualityIssue{Rule: rule.Name(), Row: i, Message: err.Error()})
			}
		}
	}
	return issues
}

// ============ 校验规则实现 ============

// RecordRule 记录自身的不变量（数值范围、直径顺序、标签、日期存在）
type RecordRule struct{}

func (RecordRule) Name() string { return "record" }

func (RecordRule) Apply(r asteroid.Record) error {
	return r.Validate()
}

// ApproachDateRule 日期必须在合理范围内；缺失日期由 RecordRule 报告
type ApproachDateRule struct {
	Earliest time.Time
	Latest   time.Time
}

func NewApproachDateRule() ApproachDateRule {
	return ApproachDateRule{
		Earliest: time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC),
		Latest:   time.Date(2200, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

func (ApproachDateRule) Name() string { return "approach_date" }

func (r ApproachDateRule) Apply(rec asteroid.Record) error {
	if rec.CloseApproachDate.IsZero() {
		return nil
	}
	if rec.CloseApproachDate.Before(r.Earliest) || rec.CloseApproachDate.After(r.Latest) {
		return fmt.Errorf("close_approach_date %s outside [%s, %s]",
			rec.CloseApproachDate.Format("2006-01-02"), r.Earliest.Format("2006-01-02"), r.Latest.Format("2006-01-02"))
	}
	return nil
}
