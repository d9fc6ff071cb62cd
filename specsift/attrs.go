// CLAUDE:SUMMARY Canonical attribute-name constants shared by extractors and the merge layer.
package specsift

// Canonical attribute names follow the catalogue's output vocabulary.
// The full canonical set is open: the normalizer may produce any name a
// rule maps to; these are the ones the extractors and merge logic handle
// structurally.
const (
	attrURL            = "链接地址"
	attrModelDesc      = "型号描述"
	attrSeriesFeatures = "系列特性"
	attrSwitchType     = "交换机类型"
	attrSoftware       = "软件特性"
	attrProtocols      = "支持协议"

	switchTypeBox     = "盒式交换机"
	switchTypeChassis = "框式交换机"

	attrPOETotal   = "POE总功率"
	attrPOETotalAC = "POE总功率_AC"
	attrPOETotalDC = "POE总功率_DC"
	attrPOEAf      = "POE端口数(802.3af)"
	attrPOEAt      = "POE+端口数(802.3at)"
	attrPOEBt60    = "POE++端口数(60W)"
	attrPOEBt90    = "POE++端口数(90W)"

	attrPortsSFP28     = "SFP28端口数"
	attrPortsSFPPlus   = "SFP+端口数"
	attrPortsSFP       = "SFP端口数"
	attrPortsQSFP28    = "QSFP28端口数"
	attrPortsQSFPPlus  = "QSFP+端口数"
	attrPortsMultiGiga = "MultiGiga端口数"
	attrPortsBaseT     = "1000Base-T端口数"
	attrPortsCombo     = "Combo端口数"
	attrPorts1G        = "1G端口数"
	attrPorts2G5       = "2.5G端口数"
	attrPorts5G        = "5G端口数"
	attrPorts10G       = "10G端口数"

	attrMACTable   = "MAC地址表"
	attrVLANTable  = "VLAN表项"
	attrRouteTable = "路由表项"
	attrARPTable   = "ARP表项"
	attrACLRules   = "ACL规则数"
	attrMcastTable = "组播表项"
)

// Attributes is the open attribute bag of one model (or series pseudo-entity).
// Values are strings, except port and entry counts which are ints.
type Attributes map[string]any

// Result maps an entity key — a model identifier, or a series-level
// pseudo-key before merging — to its attributes.
type Result map[string]Attributes
