package database

// LevelTable is the user experience level table.
const LevelTable = "xp_lv"

// levelTableDDL holds the xp_lv definition per dialect. Every statement
// is CREATE TABLE IF NOT EXISTS and must stay safe to run repeatedly.
//
// lv is unique; the seed insert relies on that key to skip existing rows.
var levelTableDDL = map[Dialect]string{
	MySQL:    mysqlLevelTable,
	Postgres: postgresLevelTable,
	SQLite:   sqliteLevelTable,
}

const mysqlLevelTable = "CREATE TABLE IF NOT EXISTS `xp_lv` (\n" +
	"  `id` int(11) NOT NULL AUTO_INCREMENT,\n" +
	"  `lv` int(11) NOT NULL COMMENT '等级',\n" +
	"  `xp` int(11) NOT NULL COMMENT '达到该等级所需经验值',\n" +
	"  `level_name` varchar(50) NOT NULL DEFAULT '' COMMENT '等级名称',\n" +
	"  `level_icon` varchar(255) NOT NULL DEFAULT '' COMMENT '等级图标',\n" +
	"  `privileges` text COMMENT '等级特权',\n" +
	"  `create_time` datetime NOT NULL DEFAULT CURRENT_TIMESTAMP COMMENT '创建时间',\n" +
	"  `update_time` datetime DEFAULT NULL ON UPDATE CURRENT_TIMESTAMP COMMENT '更新时间',\n" +
	"  PRIMARY KEY (`id`),\n" +
	"  UNIQUE KEY `lv` (`lv`)\n" +
	") ENGINE=InnoDB DEFAULT CHARSET=utf8 COMMENT='用户经验等级表'"

const postgresLevelTable = `
CREATE TABLE IF NOT EXISTS "xp_lv" (
    id SERIAL PRIMARY KEY,
    lv INTEGER NOT NULL UNIQUE,
    xp INTEGER NOT NULL,
    level_name VARCHAR(50) NOT NULL DEFAULT '',
    level_icon VARCHAR(255) NOT NULL DEFAULT '',
    privileges TEXT,
    create_time TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    update_time TIMESTAMP
)`

const sqliteLevelTable = `
CREATE TABLE IF NOT EXISTS "xp_lv" (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    lv INTEGER NOT NULL UNIQUE,
    xp INTEGER NOT NULL,
    level_name TEXT NOT NULL DEFAULT '',
    level_icon TEXT NOT NULL DEFAULT '',
    privileges TEXT,
    create_time TEXT NOT NULL DEFAULT (datetime('now')),
    update_time TEXT
)`
