package http

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/whoamihappyhacking/chatlens/internal/analysis"
	"github.com/whoamihappyhacking/chatlens/internal/errors"
)

const (
	mcpName    = "chatlens"
	mcpVersion = "0.1.0"
)

var rankingKinds = []string{
	string(analysis.RankingAbsolute),
	string(analysis.RankingConfidant),
	string(analysis.RankingListener),
	string(analysis.RankingBalance),
	string(analysis.RankingInitiative),
	string(analysis.RankingMidnight),
}

func (s *Service) initMCPServer() {
	s.mcpServer = server.NewMCPServer(mcpName, mcpVersion,
		server.WithToolCapabilities(true),
	)
	s.mcpServer.AddTool(annualReportTool(), s.toolAnnualReport)
	s.mcpServer.AddTool(contactRankingsTool(), s.toolContactRankings)

	s.mcpSSEServer = server.NewSSEServer(s.mcpServer)
	s.mcpStreamableServer = server.NewStreamableHTTPServer(s.mcpServer)
}

func annualReportTool() mcp.Tool {
	return mcp.NewTool("annual_report",
		mcp.WithDescription("返回聊天记录的年度关系报告（JSON）：排行榜、热力图、语言风格、表情人格等。不指定 year 时统计全部时间。"),
		mcp.WithString("year", mcp.Description("统计年份，如 2024；留空或 all 表示全部时间")),
		mcp.WithBoolean("refresh", mcp.Description("忽略缓存重新计算")),
	)
}

func contactRankingsTool() mcp.Tool {
	return mcp.NewTool("contact_rankings",
		mcp.WithDescription("返回指定类型的联系人排行榜，每行一个联系人。"),
		mcp.WithString("kind",
			mcp.Required(),
			mcp.Description("排行类型"),
			mcp.Enum(rankingKinds...),
		),
		mcp.WithString("year", mcp.Description("统计年份，如 2024；留空或 all 表示全部时间")),
		mcp.WithNumber("limit", mcp.Description("最多返回的条目数，0 表示不限制")),
	)
}

func (s *Service) toolAnnualReport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scope, err := analysis.ParseScope(req.GetString("year", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !s.reporter.Ready() {
		return mcp.NewToolResultError(errors.ErrNotConnected.Error()), nil
	}
	bundle, err := s.reporter.Report(ctx, scope, req.GetBool("refresh", false))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := json.Marshal(bundle)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Service) toolContactRankings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind := analysis.RankingKind(strings.ToLower(req.GetString("kind", "")))
	scope, err := analysis.ParseScope(req.GetString("year", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !s.reporter.Ready() {
		return mcp.NewToolResultError(errors.ErrNotConnected.Error()), nil
	}
	bundle, err := s.reporter.Report(ctx, scope, false)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ranking, ok := bundle.Ranking(kind)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("%s: %q", errors.ErrUnknownRanking.Error(), kind)), nil
	}
	return mcp.NewToolResultText(formatRanking(ranking.Truncate(req.GetInt("limit", 0)))), nil
}

// formatRanking 纯文本排行，便于模型直接阅读
func formatRanking(r analysis.Ranking) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (total %d)\n", r.Kind, r.Total)
	if len(r.Entries) == 0 {
		b.WriteString("(empty)\n")
		return b.String()
	}
	for i, e := range r.Entries {
		fmt.Fprintf(&b, "%d. %s [%s] count=%d score=%.2f\n", i+1, e.DisplayName, e.ContactID, e.PrimaryCount, e.Score)
	}
	return b.String()
}
