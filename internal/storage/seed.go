package storage

import (
	"context"
	"fmt"
	"time"

	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/finflow/finflow-bot/core/logger"
)

type seedWallet struct {
	ID     string
	Number string
}

type seedArticle struct {
	Code      int
	ShortName string
	Name      string
}

var seedWallets = []seedWallet{
	{"w1", "РС ТОЧКА"},
	{"w2", "РС ТОЧКА (второй счет)"},
	{"w3", "РС ОЗОН банк"},
	{"w4", "РС УРАЛСИБ"},
	{"w5", "РС АкБарс"},
	{"w6", "КРЕДИТОРЫ РАСЧЕТНЫЙ"},
	{"w7", "РС ВТБ Банк"},
	{"w8", "КАССА"},
	{"w9", "ФОНДЫ"},
}

var seedCreditors = []string{
	"ООО ШАФТСТИЛ",
	"ООО СПС",
	"ООО БС СПб",
	"Горчаков",
	"ООО Строитель",
	"ЗАО ИнвестСтрой",
	"ООО ЛенДорСтрой",
	"ИП Иванов",
	"ООО Северный Ветер",
	"ЗАО РемонтПро",
	"ООО СтальПрофиль",
	"ИП Петров",
}

var seedArticles = []seedArticle{
	{1, "Выручка", "Выручка (по проектам)"},
	{2, "Прочие доходы", "Прочие доходы"},
	{3, "ФОТ бригад/подряд.", "ПО ПРОЕКТАМ. ФОТ БРИГАДЫ И ПОДРЯДЧИКИ"},
	{4, "Материалы проектов", "ПО ПРОЕКТАМ. МАТЕРИАЛЫ"},
	{5, "Доставка/подъем", "ПО ПРОЕКТАМ. ДОСТАВКА И ПОДЪЕМ"},
	{6, "Уборка/мусор", "ПО ПРОЕКТАМ. УБОРКА И ВЫВОЗ МУСОРА"},
	{7, "Бонус отдела продаж", "ПО ПРОЕКТАМ. БОНУСЫ ОТДЕЛА ПРОДАЖ"},
	{8, "Бонус строителей", "ПО ПРОЕКТАМ. БОНУСЫ СТРОИТ. ПЕРСОНАЛА"},
	{9, "Представительские", "ПО ПРОЕКТАМ. ПРЕДСТАВИТЕЛЬСКИЕ РАСХОДЫ"},
	{10, "Прочие прямые", "ПО ПРОЕКТАМ. ПРОЧИЕ ПРЯМЫЕ"},
	{11, "ФОТ штатных", "ФОТ штатного производств. персонала"},
	{12, "Техника/инвентарь", "Расходы на технику и инвентаря"},
	{13, "Расходы на ОС", "Расходы на ОС"},
	{14, "ФОТ админ.", "ФОТ административного персонала"},
	{15, "ФОТ коммерц.", "ФОТ коммерческого персонала"},
	{16, "Налоги ФОТ", "Налоги ФОТ"},
	{17, "Аренда офис/склад", "Аренда и содержание (офис, склад)"},
	{18, "Админ. подрядчики", "Административные подрядчики"},
	{19, "Корп. расходы", "Корпоративные: подарки, персонал, обучение"},
	{20, "Маркетинг", "Маркетинг"},
	{21, "Онлайн сервисы", "Онлайн сервисы"},
	{22, "Возвраты подрядч.", "ВОЗВРАТЫ от подрядчиков"},
	{23, "Банк/РКО/комиссии", "Банки/РКО/комиссии"},
	{24, "Прочие расходы", "Прочие расходы"},
	{25, "Налоги БАЗА", "Налоги БАЗА"},
	{26, "Проценты по займам", "% по займам и кредитам"},
	{27, "Получение кредитов", "Получение кредитов и займов"},
	{28, "Вклады собственн.", "Вклады от собственников"},
	{29, "Оплаты по кредитам", "Оплаты по кредитам и займам"},
	{30, "Дивиденды", "Дивиденды"},
	{31, "Инвест. поступл.", "Прочие поступл. от инвест. операций"},
	{32, "Возврат кредитов", "Возврат кредитов и займов (нам вернули)"},
	{33, "Продажа ОС", "Продажа ОС"},
	{34, "Покупка/ремонт ОС", "Покупка ОС и ремонт ОС"},
	{35, "Выдача кредитов", "Выдача кредитов и займов (мы выдали)"},
}

var seedProjects = []string{
	"Коттедж Крокусы",
	"Острава Ветеранов",
	"Кв. Наука",
	"Коттедж Крокусы 2",
	"Сев. Минвата",
	"Елиз. Парапет",
	"Пулково 42к6",
	"Пулково 36",
	"Монодом",
	"Лаврики 57",
	"Русан. Шов",
	"Мойка Аполло",
	"ИМОП",
	"Лаврики 55",
	"Куш. Дорога",
	"Общежитие",
}

var seedEmployees = []string{
	"Ваня - Мастер",
	"Ваня - Помощник",
	"Ваня - Инженер",
	"Ваня - Стажер",
	"Саша - Менеджер",
	"Саша - Бригадир",
	"Саша - Оператор",
	"Саша - Снабженец",
	"Петр - Рабочий",
	"Петр - Инженер",
	"Игорь - Мастер",
	"Игорь - Снабженец",
}

var seedMaterials = []string{
	"Цемент М500",
	"Песок строительный",
	"Щебень фракц. 20-40",
	"Арматура 12 мм",
	"Кирпич красный",
	"Штукатурка гипсовая",
	"Кровельный профиль",
	"Гипсокартон 12 мм",
	"Лак для дерева",
	"Краска фасадная",
	"Плитка керамогранит",
	"Трубы ПВХ 50 мм",
	"Электрокабель 2.5 кв",
	"Дюбели 6x40",
	"Саморезы 4.2x50",
}

var seedFounders = []string{"Андрей", "Степан"}

var seedContractors = []string{
	"Бригада 1",
	"Бригада 2",
	"Бригада 3",
	"Бригада 4",
	"Бригада 5",
	"Бригада 6",
	"Бригада 7",
	"Бригада 8",
	"Бригада 9",
	"Бригада 10",
	"Бригада 11",
	"Бригада 12",
	"Подрядчик 1",
	"Подрядчик 2",
	"Подрядчик 3",
	"Подрядчик 4",
	"Подрядчик 5",
	"Подрядчик 6",
	"Подрядчик 7",
	"Подрядчик 8",
	"Подрядчик 9",
	"Подрядчик 10",
}

func seedNames(ctx context.Context, tx *sqlx.Tx, table string, names []string) error {
	query := fmt.Sprintf(`INSERT INTO %s (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, table)
	for _, name := range names {
		if _, err := tx.ExecContext(ctx, query, name); err != nil {
			return fmt.Errorf("seed %s %q: %w", table, name, err)
		}
	}
	return nil
}

// Seed loads the reference catalogs. Inserts are idempotent, so running
// it on every start is safe.
func Seed(ctx context.Context, db *sqlx.DB) error {
	start := time.Now()

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, w := range seedWallets {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO wallets (wallet_id, wallet_number) VALUES ($1, $2)
			 ON CONFLICT (wallet_id) DO NOTHING`, w.ID, w.Number)
		if err != nil {
			return fmt.Errorf("seed wallet %s: %w", w.ID, err)
		}
	}

	for _, a := range seedArticles {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO articles (code, short_name, name) VALUES ($1, $2, $3)
			 ON CONFLICT (code) DO NOTHING`, a.Code, a.ShortName, a.Name)
		if err != nil {
			return fmt.Errorf("seed article %d: %w", a.Code, err)
		}
	}

	for table, names := range map[string][]string{
		"creditors":   seedCreditors,
		"projects":    seedProjects,
		"employees":   seedEmployees,
		"materials":   seedMaterials,
		"founders":    seedFounders,
		"contractors": seedContractors,
	} {
		if err := seedNames(ctx, tx, table, names); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	logger.SEED.Info("reference catalogs seeded",
		slog.String("event", "seed.done"),
		slog.Int("wallets", len(seedWallets)),
		slog.Int("articles", len(seedArticles)),
		slog.Duration("duration", logger.Took(start)),
	)
	return nil
}
