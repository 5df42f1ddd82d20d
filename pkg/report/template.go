package report

// htmlTemplate is the standalone audit report page.
const htmlTemplate = `<!DOCTYPE html>
<html lang="ko">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>KRDS 준수 진단 보고서 - {{.Result.URL}}</title>
<style>
  body { font-family: 'Pretendard', -apple-system, sans-serif; margin: 0; background: #f4f5f6; color: #1e2124; }
  .wrap { max-width: 960px; margin: 0 auto; padding: 32px 16px; }
  header.report { background: #246beb; color: #fff; border-radius: 12px; padding: 24px; }
  header.report h1 { margin: 0 0 4px; font-size: 22px; }
  header.report .meta { font-size: 13px; opacity: .85; }
  .overall { display: flex; align-items: baseline; gap: 12px; margin-top: 16px; }
  .overall .num { font-size: 48px; font-weight: 700; }
  .overall .grade { font-size: 14px; padding: 4px 10px; border-radius: 999px; background: rgba(255,255,255,.2); }
  section.block { background: #fff; border-radius: 12px; padding: 20px 24px; margin-top: 16px; }
  section.block h2 { margin: 0 0 12px; font-size: 17px; display: flex; justify-content: space-between; }
  table { width: 100%; border-collapse: collapse; font-size: 14px; }
  th, td { text-align: left; padding: 8px 10px; border-bottom: 1px solid #e9ebee; vertical-align: top; }
  th { color: #6b7280; font-weight: 600; font-size: 12px; }
  .score-high { color: #0c8a45; font-weight: 700; }
  .score-mid  { color: #b97800; font-weight: 700; }
  .score-low  { color: #d32f2f; font-weight: 700; }
  .issues { margin: 4px 0 0; padding-left: 18px; color: #6b7280; }
  .excluded { color: #6b7280; }
  .excluded .reason { font-size: 12px; }
  .bars { display: grid; grid-template-columns: repeat(4, 1fr); gap: 12px; }
  .bar { background: #f0f2f5; border-radius: 8px; padding: 12px; }
  .bar .name { font-size: 12px; color: #6b7280; text-transform: capitalize; }
  .bar .val { font-size: 22px; font-weight: 700; }
  .exception-info { background: #fff7e6; border: 1px solid #ffd591; }
</style>
</head>
<body>
<div class="wrap">
  <header class="report">
    <h1>KRDS 준수 진단 보고서</h1>
    <div class="meta">{{.Result.URL}} · {{.Result.Viewport}} · {{.Result.Timestamp.Format "2006-01-02 15:04"}}</div>
    <div class="overall">
      <span class="num">{{.Result.OverallScore}}</span>
      <span>/ 100</span>
      <span class="grade">{{.Grade}}</span>
    </div>
  </header>

  {{if .Result.ExceptionInfo}}
  <section class="block exception-info">
    <h2>예외 처리 내역</h2>
    <table>
      <tr><th>체크리스트</th><td>{{.Result.ExceptionInfo.ChecklistID}}</td></tr>
      <tr><th>예외 건수</th><td>{{.Result.ExceptionInfo.TotalExceptions}}</td></tr>
      <tr><th>점수 변화</th><td>{{.Result.ExceptionInfo.OriginalScore}} → {{.Result.ExceptionInfo.AdjustedScore}} ({{if ge .Result.ExceptionInfo.ScoreDifference 0}}+{{end}}{{.Result.ExceptionInfo.ScoreDifference}})</td></tr>
    </table>
  </section>
  {{end}}

  {{range .Sections}}
  <section class="block">
    <h2>{{.Label}} <span class="{{scoreClass .Score}}">{{.Score}}점</span></h2>
    <table>
      <thead><tr><th>항목</th><th>점수</th><th>상태</th><th>지적 사항</th></tr></thead>
      <tbody>
      {{range .Items}}
      <tr{{if .Excluded}} class="excluded"{{end}}>
        <td>{{.Label}}</td>
        <td class="{{scoreClass .Score}}">{{.Score}}</td>
        <td>{{statusText .}}</td>
        <td>
          {{if .Excluded}}<div class="reason">예외: {{.ExclusionReason}}</div>
          {{else if .Issues}}<ul class="issues">{{range .Issues}}<li>{{.}}</li>{{end}}</ul>
          {{else}}-{{end}}
        </td>
      </tr>
      {{end}}
      </tbody>
    </table>
  </section>
  {{end}}

  <section class="block">
    <h2>웹 접근성 (KWCAG) <span class="{{scoreClass .Result.KwcagReport.OverallCompliance}}">{{.Result.KwcagReport.OverallCompliance}}%</span></h2>
    <p>WCAG 수준: <strong>{{.Result.KwcagReport.WcagLevel}}</strong> ·
       위반 {{.Result.KwcagReport.Violations}}건 · 통과 {{.Result.KwcagReport.Passes}}건</p>
    <div class="bars">
      {{range .Principles}}
      <div class="bar">
        <div class="name">{{.Name}}</div>
        <div class="val {{scoreClass .Compliance}}">{{.Compliance}}%</div>
      </div>
      {{end}}
    </div>
  </section>
</div>
</body>
</html>
`
