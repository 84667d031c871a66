package domain

const namespaceRoot = "datadog_checks"

// CheckNamespace maps a check directory name to the Python namespace used
// when measuring its coverage.
func CheckNamespace(check string) string {
	switch check {
	case "datadog_checks_base":
		return namespaceRoot
	case "datadog_checks_dev":
		return namespaceRoot + ".dev"
	default:
		return namespaceRoot + "." + check
	}
}

// NamespaceOverrides maps check names to namespaces that do not follow
// the default pattern.
type NamespaceOverrides map[string]string

// Resolve returns the override for check when one exists, otherwise the
// default namespace.
func (o NamespaceOverrides) Resolve(check string) string {
	if ns, ok := o[check]; ok && ns != "" {
		return ns
	}
	return CheckNamespace(check)
}
