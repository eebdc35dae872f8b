package sqldb

import (
	"database/sql"
	"errors"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const (
	MySQL  = "mysql"
	SQLite = "sqlite"
)

type DBer interface {
	CreateTable(t TableData) error
	Insert(t TableData) error
	Close() error
}

type Sqldb struct {
	options
	db *sql.DB
}

type Field struct {
	Title string
	Type  string
}

type TableData struct {
	TableName   string
	ColumnNames []Field       // 标题字段
	Args        []interface{} // 数据
	DataCount   int           // 插入数据的数量
	AutoKey     bool
}

func New(opts ...Option) (*Sqldb, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}

	d := &Sqldb{}
	d.options = options

	if err := d.OpenDB(); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *Sqldb) OpenDB() error {
	db, err := sql.Open(d.driver, d.sqlURL)
	if err != nil {
		return err
	}

	if d.driver == SQLite {
		// sqlite 只允许一个写连接，:memory: 也依赖单连接
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(16)
		db.SetMaxIdleConns(16)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return err
	}

	d.db = db

	return nil
}

func (d *Sqldb) Close() error {
	if d.db == nil {
		return nil
	}

	return d.db.Close()
}

func quote(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "") + "`"
}

func (d *Sqldb) CreateTable(t TableData) error {
	if len(t.ColumnNames) == 0 {
		return errors.New("column can not be empty")
	}

	sql := `CREATE TABLE IF NOT EXISTS ` + quote(t.TableName) + " ("

	if t.AutoKey {
		if d.driver == SQLite {
			sql += `id INTEGER PRIMARY KEY AUTOINCREMENT,`
		} else {
			sql += `id INT(12) NOT NULL PRIMARY KEY AUTO_INCREMENT,`
		}
	}

	for _, t := range t.ColumnNames {
		sql += quote(t.Title) + ` ` + t.Type + `,`
	}

	sql = sql[:len(sql)-1] + `)`
	if d.driver == MySQL {
		sql += ` ENGINE=MyISAM DEFAULT CHARSET=utf8mb4`
	}
	sql += `;`

	d.logger.Debug("crate table", zap.String("sql", sql))

	_, err := d.db.Exec(sql)

	return err
}

func (d *Sqldb) DropTable(t TableData) error {
	if t.TableName == "" {
		return errors.New("table name can not be empty")
	}

	sql := `DROP TABLE IF EXISTS ` + quote(t.TableName)

	d.logger.Debug("drop table", zap.String("sql", sql))

	_, err := d.db.Exec(sql)

	return err
}

func (d *Sqldb) Insert(t TableData) error {
	if len(t.ColumnNames) == 0 {
		return errors.New("empty column")
	}

	if t.DataCount <= 0 {
		return errors.New("empty data")
	}

	sql := `INSERT INTO ` + quote(t.TableName) + `(`

	for _, v := range t.ColumnNames {
		sql += quote(v.Title) + ","
	}

	sql = sql[:len(sql)-1] + `) VALUES `

	blank := ",(" + strings.Repeat(",?", len(t.ColumnNames))[1:] + ")"
	sql += strings.Repeat(blank, t.DataCount)[1:] + `;`
	d.logger.Debug("insert table", zap.String("sql", sql))
	_, err := d.db.Exec(sql, t.Args...)

	return err
}
