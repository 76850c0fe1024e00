package refdata

import "github.com/stockit/analyzer/internal/domain"

// styleTags maps cluster labels to their fixed display tags.
// The wording comes from the tagging step of the training pipeline and is
// shared verbatim with the mobile client; do not rephrase.
var styleTags = [domain.ClusterCount]string{
	"[안정형 일반주]",
	"[고효율 우량주]",
	"[초고배당 가치주]",
	"[고위험 저평가주]",
	"[고성장 기대주]",
	"[초대형 우량주]",
	"[초저평가 가치주]",
	"[고가치 성장주]",
}

// styleDescriptions holds the plain-language explanation for each cluster.
var styleDescriptions = [domain.ClusterCount]string{
	"안정적인 보통 주식: 회사가 빚(부채)이 적어서 일단 망할 위험이 낮아요. 하지만 돈을 벌어들이는 효율(ROE)이 평범해서, 주가가 폭발적으로 오르지도 않을 거예요.",
	"숨겨진 보물 우량주: PER이 낮아서 저평가되어 있고, ROE가 높아 효율성이 뛰어난 믿음직한 기업이에요.",
	"초고배당 가치주: 배당수익률이 높고 PER이 낮아 현재 가치도 괜찮은 그룹이에요.",
	"고위험 저평가주: PBR이 낮지만 부채비율이 높아 위험할 수 있어요.",
	"고성장 기대주: PER이 매우 높고, 앞으로 엄청난 성장이 기대되는 기업이에요.",
	"초대형 우량주: 시가총액이 가장 크고 안정적인 그룹이에요.",
	"초저평가 가치주: PER과 PBR이 낮고 부채비율도 낮아 싸고 안전한 종목이에요.",
	"고가치 성장주: PBR과 ROE가 높아 시장에서 비싼 값을 지불할 가치가 있는 성장 기업이에요.",
}

// StyleTag returns the display tag for a cluster label.
func StyleTag(cluster int) string {
	if cluster < 0 || cluster >= domain.ClusterCount {
		return ""
	}
	return styleTags[cluster]
}

// StyleDescription returns the explanation text for a cluster label.
func StyleDescription(cluster int) string {
	if cluster < 0 || cluster >= domain.ClusterCount {
		return ""
	}
	return styleDescriptions[cluster]
}
