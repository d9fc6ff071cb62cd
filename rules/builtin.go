// CLAUDE:SUMMARY Built-in fallback parameter mappings, skip patterns, and the default profile.
package rules

import "regexp"

// builtinMapping is one fallback regex → canonical attribute name pair.
// Patterns are matched against lowercased parameter names; order matters,
// first match wins. QSFP families are listed before SFP families and the
// guarded SFP patterns reject a leading "q" so that the generic families
// never shadow the specific ones.
type builtinMapping struct {
	pattern *regexp.Regexp
	target  string
}

var builtinMappings = []builtinMapping{
	{regexp.MustCompile(`power\s*consumption|功耗|功率`), "功耗"},
	{regexp.MustCompile(`input\s*voltage|额定电压|输入电压`), "输入电压"},
	{regexp.MustCompile(`switching\s*capacity|交换容量`), "交换容量"},
	{regexp.MustCompile(`forwarding\s*(rate|capacity)|包转发率|转发容量`), "包转发率"},
	{regexp.MustCompile(`mac\s*address|mac地址|mac表`), "MAC地址表"},
	{regexp.MustCompile(`dimension|尺寸|外形尺寸`), "尺寸"},
	{regexp.MustCompile(`weight|重量`), "重量"},
	{regexp.MustCompile(`temperature|工作温度`), "工作温度"},
	{regexp.MustCompile(`humidity|工作湿度|湿度`), "工作湿度"},
	{regexp.MustCompile(`mtbf|平均无故障`), "MTBF"},
	{regexp.MustCompile(`mttr|平均修复`), "MTTR"},
	{regexp.MustCompile(`power\s*supply\s*slots?|电源槽位|电源数量|电源槽`), "电源槽位数"},
	{regexp.MustCompile(`fan\s*(num|number|quantity)|风扇槽位|风扇数量|风扇槽`), "风扇数量"},
	{regexp.MustCompile(`console|串口`), "Console口"},
	{regexp.MustCompile(`usb`), "USB口"},
	{regexp.MustCompile(`management|管理口|网管口`), "管理网口"},
	{regexp.MustCompile(`flash`), "Flash"},
	{regexp.MustCompile(`sdram|内存`), "SDRAM"},
	{regexp.MustCompile(`cpu|处理器`), "CPU"},
	{regexp.MustCompile(`latency|时延|延迟`), "延迟"},
	{regexp.MustCompile(`packet\s*buffer|包缓存|报文缓存`), "包缓存"},
	{regexp.MustCompile(`jumbo\s*frame|巨帧`), "巨帧"},
	{regexp.MustCompile(`buffer|缓存|缓冲区`), "缓存"},
	{regexp.MustCompile(`qsfp28\s*(port|光口)`), "QSFP28端口数"},
	{regexp.MustCompile(`qsfp\+\s*(port|光口)`), "QSFP+端口数"},
	{regexp.MustCompile(`qsfp\s*(port|光口)`), "QSFP端口数"},
	{regexp.MustCompile(`(^|[^q])sfp28\s*(port|光口)`), "SFP28端口数"},
	{regexp.MustCompile(`(^|[^q])sfp\+\s*(port|光口)`), "SFP+端口数"},
	{regexp.MustCompile(`(^|[^q])sfp\s*(port|光口)`), "SFP端口数"},
	{regexp.MustCompile(`base-t\s*port|电口|以太网口`), "电口数量"},
	{regexp.MustCompile(`multigiga|multi-giga|多速率`), "MultiGiga端口数"},
	{regexp.MustCompile(`maximum\s*stacking\s*bandwidth|堆叠带宽|最大堆叠带宽`), "最大堆叠带宽"},
	{regexp.MustCompile(`maximum\s*stacking\s*num|堆叠数量|最大堆叠数`), "最大堆叠数"},
}

// builtinSkipPatterns drop parameters that describe removable components
// rather than the product itself.
var builtinSkipPatterns = []*regexp.Regexp{
	regexp.MustCompile(`removable`),
	regexp.MustCompile(`power supply model`),
	regexp.MustCompile(`psu model`),
	regexp.MustCompile(`board support`),
	regexp.MustCompile(`card support`),
	regexp.MustCompile(`是否支持`),
	regexp.MustCompile(`电源模块型号`),
	regexp.MustCompile(`可移除`),
}

// DefaultProfile returns the built-in fallback profile used when no
// configured profile resolves.
func DefaultProfile() *Profile {
	return &Profile{
		Name:        "default",
		ProductType: "switch",
		SubType:     "box",
		ModelPrefixes: []string{
			"S5130S-EI", "S5130S", "S5130", "S5590", "S6520", "S5560",
			"S125", "S105", "S76", "S75",
		},
		ChassisPrefixes: []string{"S125", "S105", "S76", "S75", "S95", "S98"},
	}
}
