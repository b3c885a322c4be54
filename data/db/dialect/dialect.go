// Package dialect 描述 SQL 方言差异：占位符、标识符转义与 upsert 语法
package dialect

import (
	"strconv"
	"strings"

	core "ordering/data/db"
)

// Name 标准化的方言名称
type Name string

const (
	NameMySQL    Name = "mysql"
	NameSQLite   Name = "sqlite"
	NamePostgres Name = "postgres"
	NameUnknown  Name = ""
)

// Dialect 当前数据库的方言能力
type Dialect struct {
	name Name
}

// New 根据驱动名构造方言（大小写不敏感）
func New(name string) Dialect {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mysql":
		return Dialect{name: NameMySQL}
	case "sqlite", "sqlite3":
		return Dialect{name: NameSQLite}
	case "postgres", "postgresql", "pgx":
		return Dialect{name: NamePostgres}
	default:
		return Dialect{name: NameUnknown}
	}
}

// FromDatabase 从 IDatabase 推断方言，未实现 IDialectNameProvider 时为 Unknown
func FromDatabase(db core.IDatabase) Dialect {
	if p, ok := db.(core.IDialectNameProvider); ok {
		return New(p.GetDialectName())
	}
	return Dialect{name: NameUnknown}
}

func (d Dialect) Name() Name {
	return d.name
}

// QuoteIdentifier 按方言转义标识符，带点的限定名逐段转义
func (d Dialect) QuoteIdentifier(name string) string {
	if name == "" {
		return ""
	}
	parts := strings.Split(name, ".")
	for i, p := range parts {
		if p == "" {
			continue
		}
		switch d.name {
		case NameMySQL:
			parts[i] = "`" + p + "`"
		case NameSQLite, NamePostgres:
			parts[i] = `"` + p + `"`
		}
	}
	return strings.Join(parts, ".")
}

// Rebind 将 ? 占位符转换为方言形式，目前只有 Postgres 需要 $n。
// 不解析字符串字面量，字面量中的 ? 也会被替换。
func (d Dialect) Rebind(query string) string {
	if d.name != NamePostgres || query == "" {
		return query
	}
	var sb strings.Builder
	sb.Grow(len(query) + 4)
	argIndex := 1
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(argIndex))
			argIndex++
			continue
		}
		sb.WriteByte(query[i])
	}
	return sb.String()
}

// UpsertClause 返回追加在 INSERT 之后的冲突更新子句。
// 不支持的方言返回空串。
func (d Dialect) UpsertClause(keys []string, updates []string) string {
	if len(keys) == 0 || len(updates) == 0 {
		return ""
	}
	sets := make([]string, len(updates))
	switch d.name {
	case NameSQLite, NamePostgres:
		for i, col := range updates {
			sets[i] = col + " = excluded." + col
		}
		return " ON CONFLICT (" + strings.Join(keys, ", ") + ") DO UPDATE SET " + strings.Join(sets, ", ")
	case NameMySQL:
		for i, col := range updates {
			sets[i] = col + " = VALUES(" + col + ")"
		}
		return " ON DUPLICATE KEY UPDATE " + strings.Join(sets, ", ")
	default:
		return ""
	}
}
