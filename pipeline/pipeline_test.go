package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/rushteam/slatekit/core"
)

type fakeNode struct {
	name     string
	required bool
	err      error
	calls    *[]string
}

func (n *fakeNode) Name() string   { return n.name }
func (n *fakeNode) Kind() Kind     { return KindRetrieve }
func (n *fakeNode) Required() bool { return n.required }
func (n *fakeNode) Process(_ context.Context, _ *core.AgentState) error {
	*n.calls = append(*n.calls, n.name)
	return n.err
}

// TestPipeline_Run 验证顺序执行与逐节点日志。
func TestPipeline_Run(t *testing.T) {
	var calls []string
	p := &Pipeline{Nodes: []Node{
		&fakeNode{name: "a", required: true, calls: &calls},
		&fakeNode{name: "b", required: false, calls: &calls},
		&fakeNode{name: "c", required: true, calls: &calls},
	}}
	state := core.NewAgentState("sess", "trace")

	if err := p.Run(context.Background(), state); err != nil {
		t.Fatalf("执行失败: %v", err)
	}
	if len(calls) != 3 || calls[0] != "a" || calls[2] != "c" {
		t.Errorf("执行顺序不对: %v", calls)
	}
	if len(state.NodeLogs) != 3 {
		t.Fatalf("节点日志数 = %d, 期望 3", len(state.NodeLogs))
	}
	for _, l := range state.NodeLogs {
		if !l.Success {
			t.Errorf("节点 %s 不应失败", l.Node)
		}
		if l.DurationMs < 0 {
			t.Errorf("节点 %s 耗时为负", l.Node)
		}
	}
	if state.SuccessRate() != 1.0 {
		t.Errorf("成功率 = %v, 期望 1.0", state.SuccessRate())
	}
}

// TestPipeline_RequiredFailure 验证 required 节点失败终止链路，
// 已累积状态与日志保留。
func TestPipeline_RequiredFailure(t *testing.T) {
	var calls []string
	boom := errors.New("backend exploded")
	p := &Pipeline{Nodes: []Node{
		&fakeNode{name: "a", required: true, calls: &calls},
		&fakeNode{name: "b", required: true, err: boom, calls: &calls},
		&fakeNode{name: "c", required: true, calls: &calls},
	}}
	state := core.NewAgentState("sess", "trace")

	err := p.Run(context.Background(), state)
	if err == nil {
		t.Fatal("required 失败应返回错误")
	}

	var reqErr *ErrRequiredNode
	if !errors.As(err, &reqErr) {
		t.Fatalf("错误类型不对: %T", err)
	}
	if reqErr.Node != "b" {
		t.Errorf("失败节点 = %s, 期望 b", reqErr.Node)
	}
	if !errors.Is(err, boom) {
		t.Error("应能 Unwrap 到原始错误")
	}

	if len(calls) != 2 {
		t.Errorf("c 不应被执行: %v", calls)
	}
	if len(state.Errors) != 1 {
		t.Errorf("应记录 fatal error: %v", state.Errors)
	}
	if len(state.NodeLogs) != 2 {
		t.Errorf("失败节点也应留日志: %d", len(state.NodeLogs))
	}
	if state.NodeLogs[1].Success || state.NodeLogs[1].Error == "" {
		t.Error("失败节点日志应记录错误")
	}
}

// TestPipeline_OptionalFailure 验证 optional 节点失败只告警、继续执行。
func TestPipeline_OptionalFailure(t *testing.T) {
	var calls []string
	p := &Pipeline{Nodes: []Node{
		&fakeNode{name: "a", required: true, calls: &calls},
		&fakeNode{name: "b", required: false, err: errors.New("signal down"), calls: &calls},
		&fakeNode{name: "c", required: true, calls: &calls},
	}}
	state := core.NewAgentState("sess", "trace")

	if err := p.Run(context.Background(), state); err != nil {
		t.Fatalf("optional 失败不应中断: %v", err)
	}
	if len(calls) != 3 {
		t.Errorf("后续节点应继续执行: %v", calls)
	}
	if len(state.Warnings) != 1 {
		t.Errorf("应记录一条 warning: %v", state.Warnings)
	}
	if rate := state.SuccessRate(); rate < 0.66 || rate > 0.67 {
		t.Errorf("成功率 = %v, 期望 2/3", rate)
	}
}

// TestConfig_BuildPipeline 验证配置驱动构建与 required 覆盖。
func TestConfig_BuildPipeline(t *testing.T) {
	var calls []string
	factory := NewNodeFactory()
	factory.Register("test.node", func(cfg map[string]any) (Node, error) {
		return &fakeNode{name: "test", required: true, calls: &calls}, nil
	})

	flag := false
	cfg := &Config{}
	cfg.Pipeline.Nodes = []NodeConfig{
		{Type: "test.node"},
		{Type: "test.node", Required: &flag},
	}

	p, err := cfg.BuildPipeline(factory)
	if err != nil {
		t.Fatalf("构建失败: %v", err)
	}
	if len(p.Nodes) != 2 {
		t.Fatalf("节点数 = %d, 期望 2", len(p.Nodes))
	}
	if !p.Nodes[0].Required() {
		t.Error("默认应保留节点自身的 required")
	}
	if p.Nodes[1].Required() {
		t.Error("required 覆盖未生效")
	}

	if _, err := factory.Build("unknown.node", nil); err == nil {
		t.Error("未注册类型应报错")
	}
}
