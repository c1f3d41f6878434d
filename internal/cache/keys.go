package cache

// KeyAdminOverview ключ сводки панели администратора.
const KeyAdminOverview = "admin:overview"
