package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/slatekit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用。
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("event", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("intent", cel.DynType),
	)
}

func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	return celEnv, err
}

// Eval 是候选规则的解释器，使用 CEL (Common Expression Language) 实现。
//
// 表达式语法（CEL 标准语法）：
//   - 字段：event.category == "MUSIC" / event.relevance > 0.5
//   - 意图：intent.budget == "free" && event.price_max > 0.0
//   - 标签：label.retrieve_source.contains("keyword")
//   - 逻辑：event.city == intent.city && event.relevance >= 0.3
//
// 注意：访问不存在的 key 会报错，用 label.key != null 检查存在性。
type Eval struct {
	event  *core.CandidateEvent
	intent *core.Intention
	env    *cel.Env
}

// NewEval 创建一个规则解释器。
func NewEval(event *core.CandidateEvent, intent *core.Intention) *Eval {
	env, _ := getCELEnv()
	return &Eval{event: event, intent: intent, env: env}
}

// Evaluate 解析并执行表达式，返回布尔结果。空表达式恒为 true。
func (e *Eval) Evaluate(expr string) (bool, error) {
	if expr == "" {
		return true, nil
	}
	if e.env == nil {
		return false, fmt.Errorf("cel environment unavailable")
	}

	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("compile error: %v", issues.Err())
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("program error: %v", err)
	}

	out, _, err := prg.Eval(e.buildInput())
	if err != nil {
		return false, fmt.Errorf("eval error: %v", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

func (e *Eval) buildInput() map[string]any {
	labels := make(map[string]any, len(e.event.Labels))
	for k, v := range e.event.Labels {
		labels[k] = v.Value
	}

	event := map[string]any{
		"id":        e.event.ID,
		"title":     e.event.Title,
		"category":  e.event.Category,
		"venue":     e.event.Venue,
		"city":      e.event.City,
		"channel":   string(e.event.Channel),
		"relevance": e.event.Relevance,
		"price_max": e.event.Price.Max,
		"has_price": e.event.Price.Known,
	}

	intent := map[string]any{}
	if e.intent != nil {
		intent = map[string]any{
			"city":        e.intent.City,
			"mood":        e.intent.Tokens.Mood,
			"budget":      e.intent.Tokens.Budget,
			"distance_km": e.intent.Tokens.DistanceKm,
		}
	}

	return map[string]any{
		"event":  event,
		"label":  labels,
		"intent": intent,
	}
}
