package questgen

import "github.com/haneol/mundap/internal/analyzer"

// Template is one question form. Text may reference {entity}, {snippet} and,
// for feedback templates, {question}. Substitution happens through an
// explicit replacer so an unknown placeholder survives verbatim instead of
// breaking the sentence.
type Template struct {
	ID   string
	Text string
}

// roleGeneric is the generator-side fallback role for nodes that carry no
// candidate roles.
const roleGeneric analyzer.Role = "generic"

// catalog maps a resolved role to its question templates.
var catalog = map[analyzer.Role][]Template{
	analyzer.RoleClaim: {
		{ID: "claim-core", Text: "'{snippet}'에서 필자가 강조하고자 하는 핵심 주장은 무엇인가요?"},
		{ID: "claim-assumption", Text: "그 해석은 '{snippet}' 내용이 반드시 참이라는 가정이 필요한데, 그 근거는 무엇인가요?"},
		{ID: "claim-warrant", Text: "제시된 근거에서 이 주장('{snippet}')으로 나아가기 위해, 필자는 어떤 논리적 연결 고리를 사용하고 있나요?"},
		{ID: "claim-rebuttal", Text: "어떤 상황에서 '{snippet}'(이)라는 주장이 성립하지 않을 수 있을까요?"},
		{ID: "claim-intent", Text: "글쓴이가 '{entity}'에 대해 이렇게 주장하는 이면에 깔린 궁극적인 의도는 무엇일까요?"},
		{ID: "claim-apply", Text: "이 주장('{snippet}')을 우리 현실 문제에 적용한다면 어떤 사례를 들 수 있을까요?"},
	},
	analyzer.RoleEvidence: {
		{ID: "evidence-explicit", Text: "본문에서 '{entity}'(은)는 무엇이라고 명시되어 있나요?"},
		{ID: "evidence-support", Text: "본문의 정확히 어느 문장이 '{snippet}' 내용을 뒷받침하나요?"},
		{ID: "evidence-sufficiency", Text: "'{snippet}'만으로 주장을 뒷받침하기에 충분한가요? 아니면 추가 근거가 더 필요할까요?"},
		{ID: "evidence-objectivity", Text: "저자가 제시한 '{entity}' 관련 근거가 주장을 뒷받침하기에 충분히 객관적인가요?"},
		{ID: "evidence-gap", Text: "이 근거('{snippet}') 말고도 주장을 강화하기 위해 더 필요한 정보가 있다면 무엇일까요?"},
		{ID: "evidence-reinterpret", Text: "혹시 이 근거('{snippet}')를 다른 방식으로 해석할 여지는 없을까요?"},
	},
	analyzer.RolePremise: {
		{ID: "premise-causes", Text: "본문의 여러 부분을 종합해 볼 때, '{snippet}' 현상이 발생한 복합적인 원인은 무엇인가요?"},
		{ID: "premise-see-think", Text: "'{entity}'와 관련하여, 텍스트에서 발견한 사실과 당신의 해석을 구분해서 설명해 줄 수 있나요?"},
		{ID: "premise-root", Text: "직접적인 원인 외에, '{snippet}' 현상을 초래한 근본적인 배경은 무엇일까요?"},
		{ID: "premise-necessity", Text: "이 전제('{snippet}')와 결론 사이의 연결 고리가 필연적인가요, 아니면 우연적인 요소도 있나요?"},
		{ID: "premise-counter", Text: "만약 저자와 반대되는 입장이라면 '{snippet}' 내용을 어떻게 반박할 수 있을까요?"},
		{ID: "premise-contrast", Text: "필자가 '{entity}'을(를) 대비시키며 강조하고자 하는 논리적 차이점은 무엇인가요?"},
	},
	analyzer.RoleConclusion: {
		{ID: "conclusion-next", Text: "해석하신 대로라면, '{snippet}' 이후에 어떤 내용이 이어져야 논리적으로 타당할까요?"},
		{ID: "conclusion-predict", Text: "'{entity}'(으)로 인한 결과를 바탕으로, 저자가 다음 단락에서 어떤 논리를 펴나갈 것이라 예상하나요?"},
		{ID: "conclusion-counterfactual", Text: "만약 이 결과('{snippet}')가 발생하지 않았다면, 상황은 어떻게 달라졌을까요?"},
		{ID: "conclusion-sides", Text: "이 결과('{snippet}')가 긍정적인 측면만 있을까요? 혹시 부정적인 부작용은 없을까요?"},
		{ID: "conclusion-message", Text: "이 결과('{snippet}')를 통해 저자가 최종적으로 전달하려는 메시지는 무엇일까요?"},
	},
	roleGeneric: {
		{ID: "generic-experience", Text: "저자가 말한 '{snippet}' 개념을 당신의 실제 경험에 비추어 설명해 본다면?"},
		{ID: "generic-solution", Text: "이 글의 주제와 관련하여, 당신이라면 '{entity}' 문제에 대해 어떤 해결책을 제시하겠나요?"},
		{ID: "generic-see-think", Text: "'{snippet}' 문장에서 무엇이 보이고, 그것이 무엇을 의미한다고 생각하시나요?"},
		{ID: "generic-define", Text: "이 문맥에서 '{entity}'(이)라는 단어는 어떻게 정의할 수 있을까요?"},
		{ID: "generic-oppose", Text: "만약 '{snippet}' 내용에 반대하는 사람이 있다면, 어떤 근거를 들 수 있을까요?"},
		{ID: "generic-structure", Text: "이 문단('{snippet}')이 전체 주장 중 어떤 논리적 단계를 담당하고 있나요?"},
	},
}

// FallbackQuestion is emitted when the node is malformed. The learner never
// sees an internal error.
const FallbackQuestion = "어떻게 생각하시나요?"

// FallbackTemplateID marks fallback emissions in provenance.
const FallbackTemplateID = "fallback"

// Feedback template branches, selected by feedbackBranch.
var feedbackCatalog = map[string][]Template{
	"pass": {
		{ID: "fb-pass-next", Text: "정확하게 이해하고 계시네요! 다음 내용으로 진행해 볼까요?"},
		{ID: "fb-pass-core", Text: "훌륭해요! 핵심을 완벽히 파악하셨습니다. 계속해 볼까요?"},
		{ID: "fb-pass-logic", Text: "정확한 근거를 바탕으로 논리정연하게 답변하셨네요. 다음 단계로 넘어가 볼까요?"},
	},
	"contradiction": {
		{ID: "fb-contra-recheck", Text: "본문에서 '{snippet}'라고 언급되었는데, 답변과 조금 상충하는 것 같아요. 다시 확인해 볼까요?"},
		{ID: "fb-contra-reread", Text: "지문의 내용과 반대로 말씀하신 것 같아요. '{snippet}' 부분을 다시 읽어보시겠어요?"},
		{ID: "fb-contra-reinterpret", Text: "두 내용이 충돌하네요. 본문의 '{snippet}'를 참고해서 다시 생각해 보시겠어요?"},
	},
	"short": {
		{ID: "fb-short-why", Text: "답변이 조금 짧은 것 같아요. 왜 그렇게 생각하시는지 이유도 함께 설명해 주세요."},
		{ID: "fb-short-detail", Text: "핵심은 짚으셨는데, 조금 더 자세히 설명해 주시면 좋을 것 같아요. 왜 그렇게 생각하셨나요?"},
		{ID: "fb-short-unpack", Text: "너무 간결해요! 친구에게 설명하듯이 조금 더 풀어서 이야기해 볼까요?"},
	},
	"offpath": {
		{ID: "fb-off-refocus", Text: "질문과 조금 다른 방향으로 가신 것 같아요. 다시 한번, '{question}'에 대해 생각해 볼까요?"},
		{ID: "fb-off-snippet", Text: "본문 중 '{snippet}' 부분에 집중해서 다시 답변해 주시겠어요?"},
		{ID: "fb-off-return", Text: "잠시 길을 잃은 것 같아요. 본문의 '{snippet}' 내용으로 다시 돌아와 봅시다."},
	},
	"ground": {
		{ID: "fb-ground-keyword", Text: "좋은 방향이에요! 하지만 '{entity}' 부분에 대한 언급이 빠진 것 같아요. 조금 더 보완해 주시겠어요?"},
		{ID: "fb-ground-deepen", Text: "전반적인 맥락은 맞습니다. 하지만 필자가 말하는 '{entity}'의 진짜 의미를 좀 더 파고들어 볼까요?"},
		{ID: "fb-ground-relation", Text: "대부분 맞았어요! 다만, 근거와 주장의 논리적 관계를 좀 더 명확히 해주시면 완벽해요."},
	},
}
