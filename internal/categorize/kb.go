package categorize

// PortInfo describes a well-known port.
type PortInfo struct {
	Port        int
	Description string
	Category    Category
	Technology  string
}

// Lookup returns static knowledge about a well-known port.
func Lookup(p int) (PortInfo, bool) {
	info, ok := knownPorts[p]
	return info, ok
}

// IsDevelopmentPort reports whether a port is conventionally used by
// local development servers.
func IsDevelopmentPort(p int) bool {
	info, ok := knownPorts[p]
	return ok && info.Category == Development
}

// knownPorts is a static knowledge base of commonly encountered ports,
// used to corroborate process-name matching when a name is ambiguous.
var knownPorts = map[int]PortInfo{
	22:  {22, "SSH - Secure Shell", Network, "SSH"},
	23:  {23, "Telnet - insecure remote access", Network, "Telnet"},
	25:  {25, "SMTP - email transmission", Network, "SMTP"},
	53:  {53, "DNS - Domain Name System", Network, "DNS"},
	80:  {80, "HTTP - web server", Network, "HTTP"},
	110: {110, "POP3 - email retrieval", Network, "POP3"},
	143: {143, "IMAP - email retrieval", Network, "IMAP"},
	443: {443, "HTTPS - secure web server", Network, "HTTPS"},
	445: {445, "SMB - file sharing", System, "SMB"},
	587: {587, "SMTP - email submission", Network, "SMTP"},
	631: {631, "IPP - printer service", System, "CUPS"},
	993: {993, "IMAPS - secure email", Network, "IMAPS"},
	995: {995, "POP3S - secure email", Network, "POP3S"},

	3000: {3000, "Node.js/React dev server", Development, "Node.js"},
	3001: {3001, "development server alternate", Development, "Node.js"},
	4000: {4000, "development server", Development, ""},
	4200: {4200, "Angular dev server", Development, "Angular"},
	5000: {5000, "Flask dev server", Development, "Python"},
	5173: {5173, "Vite dev server", Development, "Vite"},
	5174: {5174, "Vite dev server (HMR)", Development, "Vite"},
	8000: {8000, "Django dev server", Development, "Python"},
	8080: {8080, "alternate HTTP / dev server", Development, ""},
	8081: {8081, "alternate dev server", Development, ""},
	9000: {9000, "development server", Development, ""},

	1521:  {1521, "Oracle database", Database, "Oracle"},
	3306:  {3306, "MySQL database", Database, "MySQL"},
	5432:  {5432, "PostgreSQL database", Database, "PostgreSQL"},
	5672:  {5672, "RabbitMQ message broker", Database, "RabbitMQ"},
	6379:  {6379, "Redis cache server", Database, "Redis"},
	9042:  {9042, "Cassandra database", Database, "Cassandra"},
	9200:  {9200, "Elasticsearch HTTP", Database, "Elasticsearch"},
	9300:  {9300, "Elasticsearch node", Database, "Elasticsearch"},
	11211: {11211, "Memcached cache", Database, "Memcached"},
	27017: {27017, "MongoDB database", Database, "MongoDB"},
	27018: {27018, "MongoDB shard server", Database, "MongoDB"},
	27019: {27019, "MongoDB config server", Database, "MongoDB"},

	1080: {1080, "SOCKS proxy", Network, "SOCKS"},
	3128: {3128, "Squid proxy", Network, "Squid"},
	8443: {8443, "HTTPS alternate", Network, "HTTPS"},

	2375:  {2375, "Docker daemon", Network, "Docker"},
	2376:  {2376, "Docker daemon (TLS)", Network, "Docker"},
	6443:  {6443, "Kubernetes API", Network, "Kubernetes"},
	10250: {10250, "Kubelet API", Network, "Kubernetes"},
}
