package backup

// ColumnType tells how a column travels through the NDJSON stream.
type ColumnType int

const (
	TypeString ColumnType = iota
	TypeInt
	TypeBool
	TypeTime
)

// Column describes one column of a backed up table.
type Column struct {
	Name     string
	Type     ColumnType
	Nullable bool
}

// Table describes a backed up table. Key holds the columns used for upserts.
type Table struct {
	Name    string
	Columns []Column
	Key     []string
}

func str(name string) Column     { return Column{Name: name, Type: TypeString} }
func integer(name string) Column { return Column{Name: name, Type: TypeInt} }
func boolean(name string) Column { return Column{Name: name, Type: TypeBool} }
func ts(name string) Column      { return Column{Name: name, Type: TypeTime} }
func nullTS(name string) Column  { return Column{Name: name, Type: TypeTime, Nullable: true} }

func itemTable(name string, columns ...Column) Table {
	cols := append([]Column{str("id"), str("author_id")}, columns...)
	cols = append(cols, ts("created_at"), ts("updated_at"))
	return Table{Name: name, Columns: cols, Key: []string{"id"}}
}

func linkTable(name string) Table {
	return Table{
		Name:    name,
		Columns: []Column{str("word_id"), str("item_id"), integer("position"), ts("created_at")},
		Key:     []string{"word_id", "item_id"},
	}
}

// Tables lists every table in foreign key order: a table only references
// tables listed before it.
var Tables = []Table{
	{
		Name:    "languages",
		Columns: []Column{str("code"), str("name"), str("native_name"), boolean("learning_available"), integer("sort_order")},
		Key:     []string{"code"},
	},
	{
		Name:    "word_types",
		Columns: []Column{str("name"), integer("sort_order")},
		Key:     []string{"name"},
	},
	{
		Name: "users",
		Columns: []Column{
			str("id"), str("username"), str("email"), str("password_hash"), str("first_name"),
			boolean("is_staff"), boolean("is_superuser"), ts("created_at"), ts("updated_at"),
		},
		Key: []string{"id"},
	},
	{
		Name:    "auth_tokens",
		Columns: []Column{str("token"), str("user_id"), ts("created_at")},
		Key:     []string{"token"},
	},
	{
		Name:    "user_languages",
		Columns: []Column{str("user_id"), str("language_code"), str("kind"), ts("created_at")},
		Key:     []string{"user_id", "language_code", "kind"},
	},
	itemTable("words",
		str("language"), str("text"), str("normalized"), str("note"), str("activity_status"),
		boolean("is_problematic"), nullTS("last_exercised_at"),
	),
	{
		Name:    "word_word_types",
		Columns: []Column{str("word_id"), str("type_name")},
		Key:     []string{"word_id", "type_name"},
	},
	itemTable("translations", str("language"), str("text"), str("normalized")),
	itemTable("definitions", str("language"), str("text"), str("normalized"), str("translation")),
	itemTable("examples",
		str("language"), str("text"), str("normalized"), str("translation"), str("source"), str("source_url"),
	),
	itemTable("tags", str("name"), str("normalized")),
	itemTable("form_groups",
		str("language"), str("name"), str("normalized"), str("color"), str("translation"),
	),
	itemTable("collections", str("title"), str("normalized"), str("description")),
	itemTable("image_associations", str("image_url")),
	itemTable("quote_associations", str("text"), str("normalized"), str("quote_author")),
	linkTable("word_translations"),
	linkTable("word_definitions"),
	linkTable("word_examples"),
	linkTable("word_tags"),
	linkTable("word_form_groups"),
	linkTable("word_collections"),
	linkTable("word_images"),
	linkTable("word_quotes"),
	{
		Name: "word_relations",
		Columns: []Column{
			str("id"), str("kind"), str("from_word_id"), str("to_word_id"), str("note"),
			integer("position"), ts("created_at"),
		},
		Key: []string{"id"},
	},
	{
		Name:    "favorite_words",
		Columns: []Column{str("user_id"), str("object_id"), ts("created_at")},
		Key:     []string{"user_id", "object_id"},
	},
	{
		Name:    "favorite_collections",
		Columns: []Column{str("user_id"), str("object_id"), ts("created_at")},
		Key:     []string{"user_id", "object_id"},
	},
	{
		Name: "exercise_approaches",
		Columns: []Column{
			str("id"), str("user_id"), str("language"), str("direction"), integer("words_amount"),
			integer("corrects"), integer("incorrects"), ts("created_at"), nullTS("completed_at"),
		},
		Key: []string{"id"},
	},
	{
		Name:    "exercise_tasks",
		Columns: []Column{str("approach_id"), str("word_id"), integer("position"), str("prompt")},
		Key:     []string{"approach_id", "word_id"},
	},
	{
		Name: "exercise_answers",
		Columns: []Column{
			str("id"), str("approach_id"), str("word_id"), str("answer"), str("verdict"), ts("created_at"),
		},
		Key: []string{"id"},
	},
}
